package tokenstore

// Storage keys for the current session scheme, plus the legacy keys older
// session formats wrote. Clear removes every variant so a stale session can
// never resurrect after logout.
const (
	KeyAccessToken   = "accessToken"
	KeyRefreshToken  = "refreshToken"
	KeyCurrentShopID = "currentShopId"
	KeyRedirectPath  = "redirectPath"

	KeyLegacyAuthToken = "auth_token"
	KeyLegacyShopID    = "current_shop_id"
)

var allKeys = []string{
	KeyAccessToken,
	KeyRefreshToken,
	KeyCurrentShopID,
	KeyRedirectPath,
	KeyLegacyAuthToken,
	KeyLegacyShopID,
}

// Storage persists session values across process restarts. Implementations
// return an empty string for absent keys rather than an error.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
