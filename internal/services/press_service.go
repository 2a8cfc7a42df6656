package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"gorm.io/gorm"
)

type PressService struct {
	repo          repository.PressRepository
	spectacleRepo repository.SpectacleRepository
	auditSvc      *AuditService
}

func NewPressService(repo repository.PressRepository, spectacleRepo repository.SpectacleRepository, auditSvc *AuditService) *PressService {
	return &PressService{repo: repo, spectacleRepo: spectacleRepo, auditSvc: auditSvc}
}

func (s *PressService) FindByID(ctx context.Context, id uint) (*models.PressArticle, error) {
	article, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return article, err
}

func (s *PressService) List(ctx context.Context, query *repository.ListQuery) ([]models.PressArticle, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *PressService) FindBySpectacle(ctx context.Context, spectacleID uint) ([]models.PressArticle, error) {
	return s.repo.FindBySpectacle(ctx, spectacleID)
}

func (s *PressService) Create(ctx context.Context, article *models.PressArticle, meta MutationMeta) error {
	if err := s.checkSpectacle(ctx, article.SpectacleID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return err
	}

	return s.audit(ctx, models.AuditActionInsert, article.ID, nil, article, meta)
}

func (s *PressService) Update(ctx context.Context, article *models.PressArticle, meta MutationMeta) error {
	previous, err := s.FindByID(ctx, article.ID)
	if err != nil {
		return err
	}
	if err := s.checkSpectacle(ctx, article.SpectacleID); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, article); err != nil {
		return err
	}

	return s.audit(ctx, models.AuditActionUpdate, article.ID, previous, article, meta)
}

func (s *PressService) Delete(ctx context.Context, id uint, meta MutationMeta) error {
	previous, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	return s.audit(ctx, models.AuditActionDelete, id, previous, nil, meta)
}

// checkSpectacle rejects dangling spectacle references
func (s *PressService) checkSpectacle(ctx context.Context, spectacleID *uint) error {
	if spectacleID == nil {
		return nil
	}
	_, err := s.spectacleRepo.FindByID(ctx, *spectacleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New("Le spectacle associé n'existe pas")
	}
	return err
}

func (s *PressService) audit(ctx context.Context, action string, id uint, oldValues, newValues interface{}, meta MutationMeta) error {
	recordID := fmt.Sprintf("%d", id)
	return s.auditSvc.Record(ctx, meta.UserID, action, models.PressArticle{}.TableName(), &recordID, oldValues, newValues, meta.IPAddress, meta.UserAgent)
}
