package services

import (
	"net/url"
	"testing"
	"time"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseAuditFilter_Defaults(t *testing.T) {
	filter, err := ParseAuditFilter(url.Values{})

	assert.NoError(t, err)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, models.AuditDefaultPageSize, filter.Limit)
	assert.Nil(t, filter.Action)
	assert.Nil(t, filter.Table)
	assert.Nil(t, filter.UserID)
	assert.Nil(t, filter.DateFrom)
	assert.Nil(t, filter.DateTo)
	assert.Nil(t, filter.Search)
}

func TestParseAuditFilter_Action(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{"uppercase passes through", "DELETE", "DELETE", false},
		{"lowercase is normalized", "insert", "INSERT", false},
		{"surrounding whitespace is trimmed", "  update  ", "UPDATE", false},
		{"unknown verb is rejected", "PATCH", "", true},
		{"garbage is rejected", "drop table", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := ParseAuditFilter(url.Values{"action": {tt.raw}})
			if tt.wantErr {
				assert.Error(t, err)
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Equal(t, "action", verr.Field)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, *filter.Action)
		})
	}
}

func TestParseAuditFilter_LimitClamping(t *testing.T) {
	tests := []struct {
		raw      string
		expected int
	}{
		{"0", 1},
		{"-5", 1},
		{"1", 1},
		{"50", 50},
		{"100", 100},
		{"101", 100},
		{"999", 100},
	}

	for _, tt := range tests {
		filter, err := ParseAuditFilter(url.Values{"limit": {tt.raw}})
		assert.NoError(t, err)
		assert.Equal(t, tt.expected, filter.Limit, "limit=%s", tt.raw)
	}
}

func TestParseAuditFilter_LimitNotNumeric(t *testing.T) {
	_, err := ParseAuditFilter(url.Values{"limit": {"beaucoup"}})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "limit", verr.Field)
}

func TestParseAuditFilter_Page(t *testing.T) {
	filter, err := ParseAuditFilter(url.Values{"page": {"7"}})
	assert.NoError(t, err)
	assert.Equal(t, 7, filter.Page)

	// Below 1 is floored, not rejected
	filter, err = ParseAuditFilter(url.Values{"page": {"-3"}})
	assert.NoError(t, err)
	assert.Equal(t, 1, filter.Page)

	_, err = ParseAuditFilter(url.Values{"page": {"deux"}})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "page", verr.Field)
}

func TestParseAuditFilter_Dates(t *testing.T) {
	filter, err := ParseAuditFilter(url.Values{
		"date_from": {"2026-08-01"},
		"date_to":   {"2026-08-31"},
	})
	assert.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *filter.DateFrom)
	// Bare end dates are inclusive: pushed to end of day
	assert.Equal(t, time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC), *filter.DateTo)
}

func TestParseAuditFilter_RFC3339Dates(t *testing.T) {
	filter, err := ParseAuditFilter(url.Values{"date_to": {"2026-08-31T12:30:00Z"}})
	assert.NoError(t, err)

	// Explicit timestamps are taken as-is, no end-of-day adjustment
	assert.Equal(t, time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC), *filter.DateTo)
}

func TestParseAuditFilter_InvalidDate(t *testing.T) {
	_, err := ParseAuditFilter(url.Values{"date_from": {"31/08/2026"}})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "date_from", verr.Field)
}

func TestParseAuditFilter_PassThroughFields(t *testing.T) {
	filter, err := ParseAuditFilter(url.Values{
		"table_name": {"spectacles"},
		"user_id":    {"8b9f2a10-0000-4000-8000-000000000001"},
		"search":     {"tartuffe"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "spectacles", *filter.Table)
	assert.Equal(t, "8b9f2a10-0000-4000-8000-000000000001", *filter.UserID)
	assert.Equal(t, "tartuffe", *filter.Search)
}
