package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/comedialab/comedia-api/internal/jobs"
	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/comedialab/comedia-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// Mock MediaRepository
type mockMediaRepository struct {
	repository.MediaRepository
	mockBulkMove          func(ctx context.Context, ids []string, folderID *uint) error
	mockBulkTag           func(ctx context.Context, ids []string, tags []string) error
	mockBulkDelete        func(ctx context.Context, ids []string) ([]models.MediaAsset, error)
	mockFindFolderByID    func(ctx context.Context, id uint) (*models.MediaFolder, error)
	mockTotalStorageBytes func(ctx context.Context) (int64, error)
}

func (m *mockMediaRepository) BulkMove(ctx context.Context, ids []string, folderID *uint) error {
	if m.mockBulkMove != nil {
		return m.mockBulkMove(ctx, ids, folderID)
	}
	return nil
}

func (m *mockMediaRepository) BulkTag(ctx context.Context, ids []string, tags []string) error {
	if m.mockBulkTag != nil {
		return m.mockBulkTag(ctx, ids, tags)
	}
	return nil
}

func (m *mockMediaRepository) BulkDelete(ctx context.Context, ids []string) ([]models.MediaAsset, error) {
	if m.mockBulkDelete != nil {
		return m.mockBulkDelete(ctx, ids)
	}
	return nil, nil
}

func (m *mockMediaRepository) FindFolderByID(ctx context.Context, id uint) (*models.MediaFolder, error) {
	if m.mockFindFolderByID != nil {
		return m.mockFindFolderByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMediaRepository) TotalStorageBytes(ctx context.Context) (int64, error) {
	if m.mockTotalStorageBytes != nil {
		return m.mockTotalStorageBytes(ctx)
	}
	return 0, nil
}

func newTestMediaService(t *testing.T, repo *mockMediaRepository) (*MediaService, *storage.LocalStorage, *int) {
	t.Helper()

	store, err := storage.NewLocalStorage(t.TempDir())
	assert.NoError(t, err)

	audits := 0
	auditRepo := &mockAuditLogRepository{
		mockRecord: func(ctx context.Context, entry *models.AuditLog) error {
			audits++
			return nil
		},
	}

	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	svc := NewMediaService(repo, store, worker, NewAuditService(auditRepo, 0))
	return svc, store, &audits
}

func seedMediaFile(t *testing.T, store *storage.LocalStorage, relPath string) {
	t.Helper()
	full := store.GetFullPath(relPath)
	assert.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	assert.NoError(t, os.WriteFile(full, []byte("contenu"), 0644))
}

func TestBulkDelete_RemovesFilesAfterCommit(t *testing.T) {
	repo := &mockMediaRepository{
		mockBulkDelete: func(ctx context.Context, ids []string) ([]models.MediaAsset, error) {
			return []models.MediaAsset{
				{ID: ids[0], StoragePath: "media/2026/08/affiche.png"},
			}, nil
		},
	}
	svc, store, audits := newTestMediaService(t, repo)
	seedMediaFile(t, store, "media/2026/08/affiche.png")

	err := svc.BulkDelete(context.Background(), []string{"a1"}, MutationMeta{})
	assert.NoError(t, err)
	assert.Equal(t, 1, *audits)

	// File removal is handed to the background worker, so it lands shortly
	// after the call returns
	assert.Eventually(t, func() bool {
		return !store.Exists("media/2026/08/affiche.png")
	}, time.Second, 5*time.Millisecond)
}

func TestBulkDelete_MissingAssetsAbortsWholeCall(t *testing.T) {
	mismatch := errors.New("certains médias n'existent pas")
	repo := &mockMediaRepository{
		mockBulkDelete: func(ctx context.Context, ids []string) ([]models.MediaAsset, error) {
			return nil, mismatch
		},
	}
	svc, store, audits := newTestMediaService(t, repo)
	seedMediaFile(t, store, "media/2026/08/programme.pdf")

	err := svc.BulkDelete(context.Background(), []string{"a1", "introuvable"}, MutationMeta{})

	// All-or-nothing: one unknown id fails the batch, no file is touched and
	// nothing is audited
	assert.ErrorIs(t, err, mismatch)
	assert.Zero(t, *audits)
	assert.True(t, store.Exists("media/2026/08/programme.pdf"))
}

func TestBulkMove_MissingAssetsPropagatesError(t *testing.T) {
	mismatch := errors.New("certains médias n'existent pas")
	repo := &mockMediaRepository{
		mockBulkMove: func(ctx context.Context, ids []string, folderID *uint) error {
			return mismatch
		},
	}
	svc, _, audits := newTestMediaService(t, repo)

	err := svc.BulkMove(context.Background(), []string{"a1", "a2"}, nil, MutationMeta{})
	assert.ErrorIs(t, err, mismatch)
	assert.Zero(t, *audits)
}

func TestBulkMove_UnknownTargetFolder(t *testing.T) {
	moved := false
	repo := &mockMediaRepository{
		mockFindFolderByID: func(ctx context.Context, id uint) (*models.MediaFolder, error) {
			return nil, gorm.ErrRecordNotFound
		},
		mockBulkMove: func(ctx context.Context, ids []string, folderID *uint) error {
			moved = true
			return nil
		},
	}
	svc, _, _ := newTestMediaService(t, repo)

	folderID := uint(42)
	err := svc.BulkMove(context.Background(), []string{"a1"}, &folderID, MutationMeta{})
	assert.EqualError(t, err, "Le dossier cible n'existe pas")
	assert.False(t, moved)
}

func TestBulkTag_RequiresTags(t *testing.T) {
	tagged := false
	repo := &mockMediaRepository{
		mockBulkTag: func(ctx context.Context, ids []string, tags []string) error {
			tagged = true
			return nil
		},
	}
	svc, _, audits := newTestMediaService(t, repo)

	err := svc.BulkTag(context.Background(), []string{"a1"}, nil, MutationMeta{})
	assert.EqualError(t, err, "Aucun tag fourni")
	assert.False(t, tagged)
	assert.Zero(t, *audits)
}

func TestBulkTag_MissingAssetsPropagatesError(t *testing.T) {
	mismatch := errors.New("certains médias n'existent pas")
	repo := &mockMediaRepository{
		mockBulkTag: func(ctx context.Context, ids []string, tags []string) error {
			return mismatch
		},
	}
	svc, _, audits := newTestMediaService(t, repo)

	err := svc.BulkTag(context.Background(), []string{"a1", "introuvable"}, []string{"saison-2026"}, MutationMeta{})
	assert.ErrorIs(t, err, mismatch)
	assert.Zero(t, *audits)
}
