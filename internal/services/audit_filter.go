package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/comedialab/comedia-api/internal/models"
)

// ValidationError reports a filter field that failed its type or range
// constraint. It is non-retryable: the caller must correct the input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("filtre invalide: %s: %s", e.Field, e.Message)
}

// ParseAuditFilter normalizes raw query parameters into a canonical
// AuditLogFilter. Search and table_name pass through unfiltered; the query
// layer parameterizes everything, so sanitization is not this layer's job.
func ParseAuditFilter(values url.Values) (*models.AuditLogFilter, error) {
	filter := models.NewAuditLogFilter()

	if raw := strings.TrimSpace(values.Get("action")); raw != "" {
		action := strings.ToUpper(raw)
		if !models.ValidAuditAction(action) {
			return nil, &ValidationError{
				Field:   "action",
				Message: fmt.Sprintf("valeur inconnue %q (attendu: INSERT, UPDATE ou DELETE)", raw),
			}
		}
		filter.Action = &action
	}

	if table := values.Get("table_name"); table != "" {
		filter.Table = &table
	}

	if userID := values.Get("user_id"); userID != "" {
		filter.UserID = &userID
	}

	if raw := values.Get("date_from"); raw != "" {
		from, err := parseFilterDate(raw, false)
		if err != nil {
			return nil, &ValidationError{Field: "date_from", Message: err.Error()}
		}
		filter.DateFrom = &from
	}

	if raw := values.Get("date_to"); raw != "" {
		to, err := parseFilterDate(raw, true)
		if err != nil {
			return nil, &ValidationError{Field: "date_to", Message: err.Error()}
		}
		filter.DateTo = &to
	}

	if search := values.Get("search"); search != "" {
		filter.Search = &search
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &ValidationError{Field: "page", Message: "doit être un entier"}
		}
		if page < 1 {
			page = 1
		}
		filter.Page = page
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &ValidationError{Field: "limit", Message: "doit être un entier"}
		}
		filter.Limit = clampLimit(limit)
	}

	return filter, nil
}

// clampLimit bounds the page size to [1, AuditMaxPageSize] whatever the
// caller asked for
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > models.AuditMaxPageSize {
		return models.AuditMaxPageSize
	}
	return limit
}

// parseFilterDate accepts RFC3339 timestamps or bare dates. Bare end dates
// are pushed to end of day so the bound stays inclusive.
func parseFilterDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("date invalide %q (attendu: AAAA-MM-JJ ou ISO-8601)", raw)
	}
	if endOfDay {
		t = t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	return t, nil
}
