package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/comedialab/comedia-api/internal/jobs"
	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/comedialab/comedia-api/internal/storage"
	"github.com/comedialab/comedia-api/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaService manages the media library: uploads, folders, tags and bulk
// actions
type MediaService struct {
	repo     repository.MediaRepository
	store    *storage.LocalStorage
	worker   *jobs.Worker
	auditSvc *AuditService
}

func NewMediaService(repo repository.MediaRepository, store *storage.LocalStorage, worker *jobs.Worker, auditSvc *AuditService) *MediaService {
	return &MediaService{repo: repo, store: store, worker: worker, auditSvc: auditSvc}
}

func (s *MediaService) FindByID(ctx context.Context, id string) (*models.MediaAsset, error) {
	asset, err := s.repo.FindAssetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return asset, err
}

func (s *MediaService) List(ctx context.Context, query *repository.ListQuery) ([]models.MediaAsset, int64, error) {
	return s.repo.ListAssets(ctx, query)
}

// Upload stores the file and registers the asset
func (s *MediaService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folderID *uint, meta MutationMeta) (*models.MediaAsset, error) {
	contentType := header.Header.Get("Content-Type")
	if !storage.IsValidContentType(contentType) {
		return nil, errors.New("Type de fichier non autorisé")
	}
	if header.Size > storage.MaxFileSize() {
		return nil, errors.New("Fichier trop volumineux")
	}

	path, err := s.store.Upload(file, header, "media")
	if err != nil {
		return nil, err
	}

	asset := &models.MediaAsset{
		ID:          uuid.NewString(),
		FileName:    header.Filename,
		StoragePath: path,
		MimeType:    contentType,
		SizeBytes:   header.Size,
		FolderID:    folderID,
	}

	if err := s.repo.CreateAsset(ctx, asset); err != nil {
		// Roll the stored file back so the library and disk stay in sync
		if rmErr := s.store.Delete(path); rmErr != nil {
			logger.Warn("Orphaned media file left on disk", "path", path, "error", rmErr)
		}
		return nil, err
	}

	if err := s.audit(ctx, models.AuditActionInsert, asset.ID, nil, asset, meta); err != nil {
		return nil, err
	}
	return asset, nil
}

// BulkMove places the given assets into a folder (nil = library root)
func (s *MediaService) BulkMove(ctx context.Context, ids []string, folderID *uint, meta MutationMeta) error {
	if folderID != nil {
		if _, err := s.repo.FindFolderByID(ctx, *folderID); errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("Le dossier cible n'existe pas")
		} else if err != nil {
			return err
		}
	}

	if err := s.repo.BulkMove(ctx, ids, folderID); err != nil {
		return err
	}

	return s.audit(ctx, models.AuditActionUpdate, "", nil, map[string]interface{}{
		"operation": "bulk_move",
		"asset_ids": ids,
		"folder_id": folderID,
	}, meta)
}

// BulkTag adds the given tags to every asset
func (s *MediaService) BulkTag(ctx context.Context, ids []string, tags []string, meta MutationMeta) error {
	if len(tags) == 0 {
		return errors.New("Aucun tag fourni")
	}

	if err := s.repo.BulkTag(ctx, ids, tags); err != nil {
		return err
	}

	return s.audit(ctx, models.AuditActionUpdate, "", nil, map[string]interface{}{
		"operation": "bulk_tag",
		"asset_ids": ids,
		"tags":      tags,
	}, meta)
}

// BulkDelete removes the assets and their files. The files are removed by
// the background worker once the database transaction has committed; a
// leftover file is logged, not fatal.
func (s *MediaService) BulkDelete(ctx context.Context, ids []string, meta MutationMeta) error {
	deleted, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return err
	}

	s.worker.Enqueue(func(ctx context.Context) error {
		for _, asset := range deleted {
			if err := s.store.Delete(asset.StoragePath); err != nil {
				logger.Warn("Failed to remove media file", "path", asset.StoragePath, "error", err)
			}
		}
		return nil
	})

	return s.audit(ctx, models.AuditActionDelete, "", deleted, nil, meta)
}

func (s *MediaService) ListFolders(ctx context.Context) ([]models.MediaFolder, error) {
	return s.repo.ListFolders(ctx)
}

func (s *MediaService) CreateFolder(ctx context.Context, folder *models.MediaFolder, meta MutationMeta) error {
	if folder.ParentID != nil {
		if _, err := s.repo.FindFolderByID(ctx, *folder.ParentID); errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("Le dossier parent n'existe pas")
		} else if err != nil {
			return err
		}
	}
	if err := s.repo.CreateFolder(ctx, folder); err != nil {
		return err
	}
	return s.audit(ctx, models.AuditActionInsert, "", nil, folder, meta)
}

func (s *MediaService) DeleteFolder(ctx context.Context, id uint, meta MutationMeta) error {
	previous, err := s.repo.FindFolderByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.repo.DeleteFolder(ctx, id); err != nil {
		return err
	}
	return s.audit(ctx, models.AuditActionDelete, "", previous, nil, meta)
}

func (s *MediaService) audit(ctx context.Context, action, recordID string, oldValues, newValues interface{}, meta MutationMeta) error {
	var record *string
	if recordID != "" {
		record = &recordID
	}
	return s.auditSvc.Record(ctx, meta.UserID, action, models.MediaAsset{}.TableName(), record, oldValues, newValues, meta.IPAddress, meta.UserAgent)
}
