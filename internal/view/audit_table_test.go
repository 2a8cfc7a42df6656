package view

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/stretchr/testify/assert"
)

// Mock AuditLister
type mockAuditLister struct {
	mockList      func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error)
	mockExportCSV func(ctx context.Context, filter *models.AuditLogFilter) (*bytes.Buffer, string, error)
}

func (m *mockAuditLister) List(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
	if m.mockList != nil {
		return m.mockList(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockAuditLister) ExportCSV(ctx context.Context, filter *models.AuditLogFilter) (*bytes.Buffer, string, error) {
	if m.mockExportCSV != nil {
		return m.mockExportCSV(ctx, filter)
	}
	return &bytes.Buffer{}, "", nil
}

func pageOfLogs() []models.AuditLog {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return []models.AuditLog{
		{ID: 3, Action: "DELETE", Table: "press_articles", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 1, Action: "INSERT", Table: "spectacles", CreatedAt: base},
		{ID: 2, Action: "UPDATE", Table: "spectacles", CreatedAt: base.Add(time.Minute)},
	}
}

func loadedTable(t *testing.T) *AuditTable {
	t.Helper()
	lister := &mockAuditLister{
		mockList: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			return pageOfLogs(), 3, nil
		},
	}
	table := NewAuditTable(lister)
	err := table.ApplyFilter(context.Background(), models.NewAuditLogFilter())
	assert.NoError(t, err)
	return table
}

func rowIDs(rows []models.AuditLog) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestAuditTable_SortCycle(t *testing.T) {
	table := loadedTable(t)

	// Unsorted: rows come back exactly as the server returned them
	_, direction := table.SortState()
	assert.Equal(t, SortNone, direction)
	assert.Equal(t, []int64{3, 1, 2}, rowIDs(table.Rows()))

	// First click: ascending
	table.ToggleSort(ColumnID)
	column, direction := table.SortState()
	assert.Equal(t, ColumnID, column)
	assert.Equal(t, SortAsc, direction)
	assert.Equal(t, []int64{1, 2, 3}, rowIDs(table.Rows()))

	// Second click: descending
	table.ToggleSort(ColumnID)
	_, direction = table.SortState()
	assert.Equal(t, SortDesc, direction)
	assert.Equal(t, []int64{3, 2, 1}, rowIDs(table.Rows()))

	// Third click: back to server order
	table.ToggleSort(ColumnID)
	_, direction = table.SortState()
	assert.Equal(t, SortNone, direction)
	assert.Equal(t, []int64{3, 1, 2}, rowIDs(table.Rows()))
}

func TestAuditTable_SwitchingColumnRestartsAscending(t *testing.T) {
	table := loadedTable(t)

	table.ToggleSort(ColumnID)
	table.ToggleSort(ColumnID) // id descending

	table.ToggleSort(ColumnAction)
	column, direction := table.SortState()
	assert.Equal(t, ColumnAction, column)
	assert.Equal(t, SortAsc, direction)
	assert.Equal(t, []int64{3, 1, 2}, rowIDs(table.Rows())) // DELETE, INSERT, UPDATE
}

func TestAuditTable_SortNeverMutatesServerOrder(t *testing.T) {
	table := loadedTable(t)

	table.ToggleSort(ColumnID)
	_ = table.Rows()
	table.ToggleSort(ColumnID)
	_ = table.Rows()

	// Cycling back to none must restore the fetched order, which means the
	// underlying slice was never sorted in place
	table.ToggleSort(ColumnID)
	assert.Equal(t, []int64{3, 1, 2}, rowIDs(table.Rows()))
}

func TestAuditTable_ApplyFilterClearsSelection(t *testing.T) {
	table := loadedTable(t)

	assert.True(t, table.Select(2))
	assert.Equal(t, int64(2), table.Selected().ID)

	err := table.ApplyFilter(context.Background(), models.NewAuditLogFilter())
	assert.NoError(t, err)
	assert.Nil(t, table.Selected())
}

func TestAuditTable_SelectUnknownID(t *testing.T) {
	table := loadedTable(t)

	assert.False(t, table.Select(99))
	assert.Nil(t, table.Selected())

	assert.True(t, table.Select(1))
	table.ClearSelection()
	assert.Nil(t, table.Selected())
}

func TestAuditTable_FailedRefetchKeepsState(t *testing.T) {
	calls := 0
	lister := &mockAuditLister{
		mockList: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			calls++
			if calls > 1 {
				return nil, 0, errors.New("backend down")
			}
			return pageOfLogs(), 3, nil
		},
	}
	table := NewAuditTable(lister)
	assert.NoError(t, table.ApplyFilter(context.Background(), models.NewAuditLogFilter()))

	err := table.SetPage(context.Background(), 2)
	assert.Error(t, err)

	// The previous page and filter survive the failed fetch
	assert.Equal(t, []int64{3, 1, 2}, rowIDs(table.Rows()))
	assert.Equal(t, 1, table.Filter().Page)
	assert.Equal(t, int64(3), table.Total())
}

func TestAuditTable_SetPageUpdatesFilter(t *testing.T) {
	var lastFilter models.AuditLogFilter
	lister := &mockAuditLister{
		mockList: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			lastFilter = *filter
			return pageOfLogs(), 42, nil
		},
	}
	table := NewAuditTable(lister)
	assert.NoError(t, table.ApplyFilter(context.Background(), models.NewAuditLogFilter()))

	assert.NoError(t, table.SetPage(context.Background(), 3))
	assert.Equal(t, 3, lastFilter.Page)
	assert.Equal(t, 3, table.Filter().Page)

	// Page floors at 1
	assert.NoError(t, table.SetPage(context.Background(), -1))
	assert.Equal(t, 1, lastFilter.Page)
}

func TestAuditTable_ExportUsesActiveFilter(t *testing.T) {
	var exported *models.AuditLogFilter
	lister := &mockAuditLister{
		mockList: func(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
			return pageOfLogs(), 3, nil
		},
		mockExportCSV: func(ctx context.Context, filter *models.AuditLogFilter) (*bytes.Buffer, string, error) {
			exported = filter
			return bytes.NewBufferString("csv"), "audit-logs-2026-08-31.csv", nil
		},
	}
	table := NewAuditTable(lister)

	action := models.AuditActionDelete
	filter := models.NewAuditLogFilter()
	filter.Action = &action
	assert.NoError(t, table.ApplyFilter(context.Background(), filter))

	// Client-side sort must not leak into the export
	table.ToggleSort(ColumnID)

	buf, filename, err := table.Export(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "csv", buf.String())
	assert.Equal(t, "audit-logs-2026-08-31.csv", filename)
	assert.Equal(t, models.AuditActionDelete, *exported.Action)
}
