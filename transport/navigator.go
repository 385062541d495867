package transport

// Navigator abstracts the host application's navigation so the client can
// force a trip to the login screen on unrecoverable auth failure. A web shell
// maps this to window.location; the CLI and tests supply their own.
type Navigator interface {
	// Path returns the current location, remembered for post-login restore.
	Path() string
	// Redirect performs a hard navigation to url.
	Redirect(url string)
}

type nopNavigator struct{}

func (nopNavigator) Path() string      { return "" }
func (nopNavigator) Redirect(_ string) {}
