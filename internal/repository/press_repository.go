package repository

import (
	"context"

	"github.com/comedialab/comedia-api/internal/models"
	"gorm.io/gorm"
)

// PressRepository defines the interface for press article data access
type PressRepository interface {
	FindByID(ctx context.Context, id uint) (*models.PressArticle, error)
	Create(ctx context.Context, article *models.PressArticle) error
	Update(ctx context.Context, article *models.PressArticle) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.PressArticle, int64, error)
	FindBySpectacle(ctx context.Context, spectacleID uint) ([]models.PressArticle, error)
}

type pressRepository struct {
	db *gorm.DB
}

// NewPressRepository creates a new press repository
func NewPressRepository(db *gorm.DB) PressRepository {
	return &pressRepository{db: db}
}

func (r *pressRepository) FindByID(ctx context.Context, id uint) (*models.PressArticle, error) {
	var article models.PressArticle
	err := r.db.WithContext(ctx).Preload("Spectacle").First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *pressRepository) Create(ctx context.Context, article *models.PressArticle) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *pressRepository) Update(ctx context.Context, article *models.PressArticle) error {
	return r.db.WithContext(ctx).Save(article).Error
}

func (r *pressRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PressArticle{}, id).Error
}

func (r *pressRepository) List(ctx context.Context, query *ListQuery) ([]models.PressArticle, int64, error) {
	var articles []models.PressArticle
	var total int64

	db := r.db.WithContext(ctx).Model(&models.PressArticle{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("title ILIKE ? OR outlet ILIKE ?", search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Spectacle").
		Order("published_on DESC NULLS LAST").
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&articles).Error
	return articles, total, err
}

func (r *pressRepository) FindBySpectacle(ctx context.Context, spectacleID uint) ([]models.PressArticle, error) {
	var articles []models.PressArticle
	err := r.db.WithContext(ctx).
		Where("spectacle_id = ?", spectacleID).
		Order("published_on DESC NULLS LAST").
		Find(&articles).Error
	return articles, err
}
