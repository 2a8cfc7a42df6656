package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comedialab/comedia-api/internal/models"
	"gorm.io/gorm"
)

// Gateway error taxonomy. ErrFetchFailed means the backend call itself
// errored and may be transient; ErrDecodeFailed means the rows violate the
// expected shape, which is a contract mismatch with the data source.
var (
	ErrFetchFailed  = errors.New("échec de la récupération des journaux d'audit")
	ErrDecodeFailed = errors.New("réponse des journaux d'audit invalide")
)

// AuditLogRepository is the single read path to persisted audit data.
// Filtering, acting-user email resolution and pagination all happen
// server-side in the get_audit_logs_with_email procedure.
type AuditLogRepository interface {
	// FetchPage returns one page of entries plus the total count matching
	// the filter, independent of pagination.
	FetchPage(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error)
	DistinctTableNames(ctx context.Context) ([]string, error)
	DistinctUsers(ctx context.Context) ([]models.AuditActor, error)
	Record(ctx context.Context, entry *models.AuditLog) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// auditLogRow mirrors the procedure's row shape. total_count is repeated on
// every row so the caller learns the total without a second query; it is
// stripped here and never reaches higher layers.
type auditLogRow struct {
	ID         int64      `gorm:"column:id"`
	Action     string     `gorm:"column:action"`
	TableName  string     `gorm:"column:table_name"`
	RecordID   *string    `gorm:"column:record_id"`
	UserID     *string    `gorm:"column:user_id"`
	UserEmail  *string    `gorm:"column:user_email"`
	OldValues  []byte     `gorm:"column:old_values"`
	NewValues  []byte     `gorm:"column:new_values"`
	IPAddress  *string    `gorm:"column:ip_address"`
	UserAgent  *string    `gorm:"column:user_agent"`
	ExpiresAt  *time.Time `gorm:"column:expires_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	TotalCount int64      `gorm:"column:total_count"`
}

func (r *auditLogRepository) FetchPage(ctx context.Context, filter *models.AuditLogFilter) ([]models.AuditLog, int64, error) {
	var rows []auditLogRow

	err := r.db.WithContext(ctx).Raw(
		`SELECT * FROM get_audit_logs_with_email(
			p_action      => ?::text,
			p_table_name  => ?::text,
			p_user_id     => ?::uuid,
			p_date_from   => ?::timestamptz,
			p_date_to     => ?::timestamptz,
			p_search      => ?::text,
			p_page        => ?::integer,
			p_limit       => ?::integer
		)`,
		filter.Action, filter.Table, filter.UserID,
		filter.DateFrom, filter.DateTo, filter.Search,
		filter.Page, filter.Limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if len(rows) == 0 {
		return []models.AuditLog{}, 0, nil
	}

	logs := make([]models.AuditLog, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toEntry()
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, entry)
	}

	return logs, rows[0].TotalCount, nil
}

// toEntry validates the row against the entry contract and drops the
// total_count denormalization
func (row *auditLogRow) toEntry() (models.AuditLog, error) {
	if !models.ValidAuditAction(row.Action) {
		return models.AuditLog{}, fmt.Errorf("%w: action inconnue %q (id=%d)", ErrDecodeFailed, row.Action, row.ID)
	}
	if row.TableName == "" {
		return models.AuditLog{}, fmt.Errorf("%w: table_name vide (id=%d)", ErrDecodeFailed, row.ID)
	}

	return models.AuditLog{
		ID:        row.ID,
		Action:    row.Action,
		Table:     row.TableName,
		RecordID:  row.RecordID,
		UserID:    row.UserID,
		UserEmail: row.UserEmail,
		OldValues: row.OldValues,
		NewValues: row.NewValues,
		IPAddress: row.IPAddress,
		UserAgent: row.UserAgent,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *auditLogRepository) DistinctTableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Distinct("table_name").
		Order("table_name").
		Pluck("table_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return names, nil
}

func (r *auditLogRepository) DistinctUsers(ctx context.Context) ([]models.AuditActor, error) {
	var actors []models.AuditActor
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT al.user_id::text AS id, u.email
		 FROM audit_logs al
		 JOIN auth.users u ON u.id = al.user_id
		 WHERE al.user_id IS NOT NULL
		 ORDER BY u.email`,
	).Scan(&actors).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return actors, nil
}

func (r *auditLogRepository) Record(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// DeleteExpired removes entries past their retention horizon
func (r *auditLogRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
