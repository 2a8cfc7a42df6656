package repository

import (
	"context"
	"errors"

	"github.com/comedialab/comedia-api/internal/models"
	"gorm.io/gorm"
)

// MediaRepository defines the interface for media library data access
type MediaRepository interface {
	FindAssetByID(ctx context.Context, id string) (*models.MediaAsset, error)
	FindAssetsByIDs(ctx context.Context, ids []string) ([]models.MediaAsset, error)
	CreateAsset(ctx context.Context, asset *models.MediaAsset) error
	UpdateAsset(ctx context.Context, asset *models.MediaAsset) error
	ListAssets(ctx context.Context, query *ListQuery) ([]models.MediaAsset, int64, error)

	// Bulk operations run in a single transaction: either every asset is
	// affected or none is.
	BulkMove(ctx context.Context, ids []string, folderID *uint) error
	BulkTag(ctx context.Context, ids []string, tags []string) error
	BulkDelete(ctx context.Context, ids []string) ([]models.MediaAsset, error)

	FindFolderByID(ctx context.Context, id uint) (*models.MediaFolder, error)
	CreateFolder(ctx context.Context, folder *models.MediaFolder) error
	UpdateFolder(ctx context.Context, folder *models.MediaFolder) error
	DeleteFolder(ctx context.Context, id uint) error
	ListFolders(ctx context.Context) ([]models.MediaFolder, error)

	TotalStorageBytes(ctx context.Context) (int64, error)
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) FindAssetByID(ctx context.Context, id string) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	err := r.db.WithContext(ctx).Preload("Folder").Where("id = ?", id).First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *mediaRepository) FindAssetsByIDs(ctx context.Context, ids []string) ([]models.MediaAsset, error) {
	var assets []models.MediaAsset
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&assets).Error
	return assets, err
}

func (r *mediaRepository) CreateAsset(ctx context.Context, asset *models.MediaAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *mediaRepository) UpdateAsset(ctx context.Context, asset *models.MediaAsset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

func (r *mediaRepository) ListAssets(ctx context.Context, query *ListQuery) ([]models.MediaAsset, int64, error) {
	var assets []models.MediaAsset
	var total int64

	db := r.db.WithContext(ctx).Model(&models.MediaAsset{})

	if query.Search != "" {
		db = db.Where("file_name ILIKE ?", "%"+query.Search+"%")
	}
	if folder := query.Filters["folder_id"]; folder != "" {
		if folder == "root" {
			db = db.Where("folder_id IS NULL")
		} else {
			db = db.Where("folder_id = ?", folder)
		}
	}
	if tag := query.Filters["tag"]; tag != "" {
		// jsonb array containment on the tags column
		db = db.Where("tags @> ?", `["`+tag+`"]`)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&assets).Error
	return assets, total, err
}

func (r *mediaRepository) BulkMove(ctx context.Context, ids []string, folderID *uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.MediaAsset{}).
			Where("id IN ?", ids).
			Update("folder_id", folderID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			return errors.New("certains médias n'existent pas")
		}
		return nil
	})
}

func (r *mediaRepository) BulkTag(ctx context.Context, ids []string, tags []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assets []models.MediaAsset
		if err := tx.Where("id IN ?", ids).Find(&assets).Error; err != nil {
			return err
		}
		if len(assets) != len(ids) {
			return errors.New("certains médias n'existent pas")
		}
		for i := range assets {
			merged := append(assets[i].TagList(), tags...)
			if err := assets[i].SetTags(merged); err != nil {
				return err
			}
			if err := tx.Model(&assets[i]).Update("tags", assets[i].Tags).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// BulkDelete removes the rows and returns the deleted assets so the caller
// can remove the underlying files once the transaction has committed.
func (r *mediaRepository) BulkDelete(ctx context.Context, ids []string) ([]models.MediaAsset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var deleted []models.MediaAsset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", ids).Find(&deleted).Error; err != nil {
			return err
		}
		if len(deleted) != len(ids) {
			return errors.New("certains médias n'existent pas")
		}
		return tx.Where("id IN ?", ids).Delete(&models.MediaAsset{}).Error
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *mediaRepository) FindFolderByID(ctx context.Context, id uint) (*models.MediaFolder, error) {
	var folder models.MediaFolder
	if err := r.db.WithContext(ctx).First(&folder, id).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *mediaRepository) CreateFolder(ctx context.Context, folder *models.MediaFolder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

func (r *mediaRepository) UpdateFolder(ctx context.Context, folder *models.MediaFolder) error {
	return r.db.WithContext(ctx).Save(folder).Error
}

func (r *mediaRepository) DeleteFolder(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Orphaned assets fall back to the library root
		if err := tx.Model(&models.MediaAsset{}).
			Where("folder_id = ?", id).
			Update("folder_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MediaFolder{}, id).Error
	})
}

func (r *mediaRepository) ListFolders(ctx context.Context) ([]models.MediaFolder, error) {
	var folders []models.MediaFolder
	err := r.db.WithContext(ctx).Order("name ASC").Find(&folders).Error
	return folders, err
}

func (r *mediaRepository) TotalStorageBytes(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.MediaAsset{}).
		Select("COALESCE(SUM(size_bytes), 0)").
		Scan(&total).Error
	return total, err
}
