package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/model"
)

// QueryParam returns the trimmed value of a query parameter.
func QueryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// QueryDate parses a YYYY-MM-DD query parameter as midnight in loc.
func QueryDate(r *http.Request, name string, loc *time.Location) (time.Time, error) {
	raw := QueryParam(r, name)
	if raw == "" {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("%s query parameter is required", name))
	}
	t, err := time.ParseInLocation(model.DateKeyLayout, raw, loc)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s (expected YYYY-MM-DD)", name, raw))
	}
	return t, nil
}
