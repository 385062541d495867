package apierror_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/joequah1/erp-client/apierror"
)

func TestHTTPErrorMatchesSentinels(t *testing.T) {
	cases := []struct {
		status   int
		sentinel error
	}{
		{401, apierror.ErrUnauthorized},
		{403, apierror.ErrForbidden},
		{404, apierror.ErrNotFound},
		{400, apierror.ErrValidation},
		{422, apierror.ErrValidation},
	}

	for _, tc := range cases {
		err := apierror.NewHTTPError(tc.status, "")
		require.ErrorIs(t, err, tc.sentinel, "status %d", tc.status)
	}

	require.NotErrorIs(t, apierror.NewHTTPError(500, ""), apierror.ErrNotFound)
}

func TestHTTPErrorMessage(t *testing.T) {
	require.Equal(t, "quota exceeded", apierror.NewHTTPError(403, "quota exceeded").Error())
	require.Equal(t, "HTTP 404: Not Found", apierror.NewHTTPError(404, "").Error())
}

func TestSentinelSurvivesWrapping(t *testing.T) {
	err := errors.Wrap(apierror.NewHTTPError(404, ""), "[GetByID] brands")
	require.ErrorIs(t, err, apierror.ErrNotFound)
}
