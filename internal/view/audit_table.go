// Package view holds the interactive state behind the admin audit-log table:
// the visible page of rows, the active filter, the selected entry and the
// client-side sort. It never talks to the database directly; every
// round-trip goes through the audit service.
package view

import (
	"bytes"
	"context"
	"sort"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/looplab/fsm"
)

// Sort directions
const (
	SortNone = "none"
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Sortable columns
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
	ColumnAction    = "action"
	ColumnTable     = "table_name"
	ColumnUserEmail = "user_email"
)

// AuditLister is the slice of the audit service the table depends on
type AuditLister interface {
	List(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error)
	ExportCSV(ctx context.Context, filter *models.AuditLogFilter) (*bytes.Buffer, string, error)
}

// AuditTable drives the audit-log screen. Filter and page changes refetch
// through the service; sorting is a pure client-side transform over the rows
// of the current page only, never the full filtered set.
type AuditTable struct {
	logs AuditLister

	rows     []models.AuditLog // server order, kept pristine for refetches
	total    int64
	filter   models.AuditLogFilter
	selected *models.AuditLog

	sortColumn string
	sortFSM    *fsm.FSM
}

// NewAuditTable creates a table with default filters and no rows loaded
func NewAuditTable(logs AuditLister) *AuditTable {
	return &AuditTable{
		logs:    logs,
		filter:  *models.NewAuditLogFilter(),
		sortFSM: newSortFSM(),
	}
}

// newSortFSM builds the per-column sort cycle: none → asc → desc → none
func newSortFSM() *fsm.FSM {
	return fsm.NewFSM(
		SortNone,
		fsm.Events{
			{Name: "cycle", Src: []string{SortNone}, Dst: SortAsc},
			{Name: "cycle", Src: []string{SortAsc}, Dst: SortDesc},
			{Name: "cycle", Src: []string{SortDesc}, Dst: SortNone},
		},
		fsm.Callbacks{},
	)
}

// ApplyFilter replaces the active filter and refetches page data. The
// selection is cleared since the selected entry may no longer be visible.
func (t *AuditTable) ApplyFilter(ctx context.Context, filter *models.AuditLogFilter) error {
	rows, total, err := t.logs.List(ctx, filter)
	if err != nil {
		return err
	}
	t.filter = *filter
	t.rows = rows
	t.total = total
	t.selected = nil
	return nil
}

// SetPage moves to another page of the current filter
func (t *AuditTable) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	filter := t.filter
	filter.Page = page
	return t.ApplyFilter(ctx, &filter)
}

// ToggleSort advances the sort state for a column. Clicking the active
// column cycles ascending → descending → server order; clicking another
// column restarts at ascending. No refetch happens.
func (t *AuditTable) ToggleSort(column string) {
	if column != t.sortColumn {
		t.sortColumn = column
		t.sortFSM.SetState(SortAsc)
		return
	}
	// The cycle event is always legal from any of the three states
	_ = t.sortFSM.Event(context.Background(), "cycle")
}

// SortState returns the active sort column and direction
func (t *AuditTable) SortState() (column, direction string) {
	if t.sortFSM.Current() == SortNone {
		return "", SortNone
	}
	return t.sortColumn, t.sortFSM.Current()
}

// Rows returns the visible rows with the client-side sort applied. The
// returned slice is a copy; the fetched server order is never mutated.
func (t *AuditTable) Rows() []models.AuditLog {
	visible := make([]models.AuditLog, len(t.rows))
	copy(visible, t.rows)

	direction := t.sortFSM.Current()
	if direction == SortNone {
		return visible
	}

	less := lessFunc(t.sortColumn, visible)
	if less == nil {
		return visible
	}
	if direction == SortDesc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(visible, less)
	return visible
}

func lessFunc(column string, rows []models.AuditLog) func(i, j int) bool {
	switch column {
	case ColumnID:
		return func(i, j int) bool { return rows[i].ID < rows[j].ID }
	case ColumnCreatedAt:
		return func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) }
	case ColumnAction:
		return func(i, j int) bool { return rows[i].Action < rows[j].Action }
	case ColumnTable:
		return func(i, j int) bool { return rows[i].Table < rows[j].Table }
	case ColumnUserEmail:
		return func(i, j int) bool {
			return derefString(rows[i].UserEmail) < derefString(rows[j].UserEmail)
		}
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Total returns the number of entries matching the filter across all pages
func (t *AuditTable) Total() int64 {
	return t.total
}

// Filter returns a copy of the active filter
func (t *AuditTable) Filter() models.AuditLogFilter {
	return t.filter
}

// Select opens the detail view for the row with the given id
func (t *AuditTable) Select(id int64) bool {
	for i := range t.rows {
		if t.rows[i].ID == id {
			entry := t.rows[i]
			t.selected = &entry
			return true
		}
	}
	return false
}

// ClearSelection closes the detail view
func (t *AuditTable) ClearSelection() {
	t.selected = nil
}

// Selected returns the entry in the detail view, or nil when none is open
func (t *AuditTable) Selected() *models.AuditLog {
	return t.selected
}

// Export produces the CSV for the whole filtered set (up to the export cap),
// not just the visible page
func (t *AuditTable) Export(ctx context.Context) (*bytes.Buffer, string, error) {
	filter := t.filter
	return t.logs.ExportCSV(ctx, &filter)
}
