package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"gorm.io/gorm"
)

// PartnerService manages partners and team members, the two ordered lists on
// the public site
type PartnerService struct {
	partnerRepo repository.PartnerRepository
	teamRepo    repository.TeamRepository
	auditSvc    *AuditService
}

func NewPartnerService(partnerRepo repository.PartnerRepository, teamRepo repository.TeamRepository, auditSvc *AuditService) *PartnerService {
	return &PartnerService{partnerRepo: partnerRepo, teamRepo: teamRepo, auditSvc: auditSvc}
}

func (s *PartnerService) ListPartners(ctx context.Context) ([]models.Partner, error) {
	return s.partnerRepo.ListOrdered(ctx)
}

func (s *PartnerService) CreatePartner(ctx context.Context, partner *models.Partner, meta MutationMeta) error {
	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		return err
	}
	return s.audit(ctx, models.AuditActionInsert, models.Partner{}.TableName(), partner.ID, nil, partner, meta)
}

func (s *PartnerService) UpdatePartner(ctx context.Context, partner *models.Partner, meta MutationMeta) error {
	previous, err := s.partnerRepo.FindByID(ctx, partner.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return err
	}
	return s.audit(ctx, models.AuditActionUpdate, models.Partner{}.TableName(), partner.ID, previous, partner, meta)
}

func (s *PartnerService) DeletePartner(ctx context.Context, id uint, meta MutationMeta) error {
	previous, err := s.partnerRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.partnerRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.audit(ctx, models.AuditActionDelete, models.Partner{}.TableName(), id, previous, nil, meta)
}

func (s *PartnerService) ListTeam(ctx context.Context) ([]models.TeamMember, error) {
	return s.teamRepo.ListOrdered(ctx)
}

func (s *PartnerService) CreateTeamMember(ctx context.Context, member *models.TeamMember, meta MutationMeta) error {
	if err := s.teamRepo.Create(ctx, member); err != nil {
		return err
	}
	return s.audit(ctx, models.AuditActionInsert, models.TeamMember{}.TableName(), member.ID, nil, member, meta)
}

func (s *PartnerService) UpdateTeamMember(ctx context.Context, member *models.TeamMember, meta MutationMeta) error {
	previous, err := s.teamRepo.FindByID(ctx, member.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.teamRepo.Update(ctx, member); err != nil {
		return err
	}
	return s.audit(ctx, models.AuditActionUpdate, models.TeamMember{}.TableName(), member.ID, previous, member, meta)
}

func (s *PartnerService) DeleteTeamMember(ctx context.Context, id uint, meta MutationMeta) error {
	previous, err := s.teamRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.audit(ctx, models.AuditActionDelete, models.TeamMember{}.TableName(), id, previous, nil, meta)
}

func (s *PartnerService) audit(ctx context.Context, action, table string, id uint, oldValues, newValues interface{}, meta MutationMeta) error {
	recordID := fmt.Sprintf("%d", id)
	return s.auditSvc.Record(ctx, meta.UserID, action, table, &recordID, oldValues, newValues, meta.IPAddress, meta.UserAgent)
}
