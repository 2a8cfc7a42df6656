package repository

import (
	"context"
	"errors"

	"github.com/comedialab/comedia-api/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateSlug is returned when a spectacle slug is already taken
var ErrDuplicateSlug = errors.New("un spectacle avec ce slug existe déjà")

// SpectacleRepository defines the interface for spectacle data access
type SpectacleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Spectacle, error)
	FindBySlug(ctx context.Context, slug string) (*models.Spectacle, error)
	Create(ctx context.Context, spectacle *models.Spectacle) error
	Update(ctx context.Context, spectacle *models.Spectacle) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Spectacle, int64, error)
	FindPublished(ctx context.Context) ([]models.Spectacle, error)
}

type spectacleRepository struct {
	db *gorm.DB
}

// NewSpectacleRepository creates a new spectacle repository
func NewSpectacleRepository(db *gorm.DB) SpectacleRepository {
	return &spectacleRepository{db: db}
}

func (r *spectacleRepository) FindByID(ctx context.Context, id uint) (*models.Spectacle, error) {
	var spectacle models.Spectacle
	err := r.db.WithContext(ctx).First(&spectacle, id).Error
	if err != nil {
		return nil, err
	}
	return &spectacle, nil
}

func (r *spectacleRepository) FindBySlug(ctx context.Context, slug string) (*models.Spectacle, error) {
	var spectacle models.Spectacle
	err := r.db.WithContext(ctx).
		Preload("PressArticles").
		Where("slug = ?", slug).
		First(&spectacle).Error
	if err != nil {
		return nil, err
	}
	return &spectacle, nil
}

func (r *spectacleRepository) Create(ctx context.Context, spectacle *models.Spectacle) error {
	if err := r.db.WithContext(ctx).Create(spectacle).Error; err != nil {
		if isDuplicateKeyError(err, "idx_spectacles_slug") {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *spectacleRepository) Update(ctx context.Context, spectacle *models.Spectacle) error {
	return r.db.WithContext(ctx).Save(spectacle).Error
}

func (r *spectacleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Spectacle{}, id).Error
}

func (r *spectacleRepository) List(ctx context.Context, query *ListQuery) ([]models.Spectacle, int64, error) {
	var spectacles []models.Spectacle
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Spectacle{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("title ILIKE ? OR summary ILIKE ?", search, search)
	}
	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&spectacles).Error
	return spectacles, total, err
}

func (r *spectacleRepository) FindPublished(ctx context.Context) ([]models.Spectacle, error) {
	var spectacles []models.Spectacle
	err := r.db.WithContext(ctx).
		Where("status = ?", models.SpectacleStatusPublished).
		Order("premiere_on DESC NULLS LAST").
		Find(&spectacles).Error
	return spectacles, err
}
