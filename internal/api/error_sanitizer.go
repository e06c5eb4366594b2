package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/ignite/inquiry-dashboard/internal/dashboard"
	"github.com/ignite/inquiry-dashboard/internal/pkg/httputil"
)

// respondError maps known dashboard errors to their status codes. Anything
// else is logged and answered with a generic 500 so source URLs, credential
// paths and SQL never reach the browser.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrNoSnapshot):
		httputil.Unavailable(w, "dashboard data is not loaded yet")
	case errors.Is(err, dashboard.ErrRefreshInProgress):
		httputil.Conflict(w, "a refresh is already running")
	case errors.Is(err, dashboard.ErrHistoryDisabled):
		httputil.Error(w, http.StatusNotFound, "not_found", "refresh history is not enabled")
	case errors.Is(err, context.DeadlineExceeded):
		httputil.Error(w, http.StatusGatewayTimeout, "timeout", "the spreadsheet did not respond in time")
	default:
		httputil.InternalError(w, err)
	}
}
