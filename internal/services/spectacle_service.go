package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/comedialab/comedia-api/internal/statemachine"
	"gorm.io/gorm"
)

// MutationMeta carries the acting-user context every CRUD mutation records
// into the audit trail
type MutationMeta struct {
	UserID    *string
	IPAddress string
	UserAgent string
}

type SpectacleService struct {
	repo     repository.SpectacleRepository
	auditSvc *AuditService
}

func NewSpectacleService(repo repository.SpectacleRepository, auditSvc *AuditService) *SpectacleService {
	return &SpectacleService{repo: repo, auditSvc: auditSvc}
}

func (s *SpectacleService) FindByID(ctx context.Context, id uint) (*models.Spectacle, error) {
	spectacle, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return spectacle, err
}

func (s *SpectacleService) FindBySlug(ctx context.Context, slug string) (*models.Spectacle, error) {
	spectacle, err := s.repo.FindBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return spectacle, err
}

func (s *SpectacleService) List(ctx context.Context, query *repository.ListQuery) ([]models.Spectacle, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *SpectacleService) Create(ctx context.Context, spectacle *models.Spectacle, meta MutationMeta) error {
	if spectacle.Slug == "" {
		spectacle.Slug = Slugify(spectacle.Title)
	}
	spectacle.Status = models.SpectacleStatusDraft

	if err := s.repo.Create(ctx, spectacle); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return err
	}

	return s.audit(ctx, models.AuditActionInsert, spectacle.ID, nil, spectacle, meta)
}

func (s *SpectacleService) Update(ctx context.Context, spectacle *models.Spectacle, meta MutationMeta) error {
	previous, err := s.FindByID(ctx, spectacle.ID)
	if err != nil {
		return err
	}

	// Status changes go through the publication workflow, not Update
	spectacle.Status = previous.Status
	spectacle.PublishedAt = previous.PublishedAt

	if err := s.repo.Update(ctx, spectacle); err != nil {
		return err
	}

	return s.audit(ctx, models.AuditActionUpdate, spectacle.ID, previous, spectacle, meta)
}

func (s *SpectacleService) Delete(ctx context.Context, id uint, meta MutationMeta) error {
	previous, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	return s.audit(ctx, models.AuditActionDelete, id, previous, nil, meta)
}

// Publish moves a draft spectacle onto the public site
func (s *SpectacleService) Publish(ctx context.Context, id uint, meta MutationMeta) (*models.Spectacle, error) {
	return s.transition(ctx, id, meta, func(f *statemachine.SpectacleFSM) error {
		return f.Publish(ctx)
	}, func(spectacle *models.Spectacle) {
		now := time.Now()
		spectacle.PublishedAt = &now
	})
}

// Unpublish takes a published spectacle back to draft
func (s *SpectacleService) Unpublish(ctx context.Context, id uint, meta MutationMeta) (*models.Spectacle, error) {
	return s.transition(ctx, id, meta, func(f *statemachine.SpectacleFSM) error {
		return f.Unpublish(ctx)
	}, func(spectacle *models.Spectacle) {
		spectacle.PublishedAt = nil
	})
}

// Archive retires a published spectacle
func (s *SpectacleService) Archive(ctx context.Context, id uint, meta MutationMeta) (*models.Spectacle, error) {
	return s.transition(ctx, id, meta, func(f *statemachine.SpectacleFSM) error {
		return f.Archive(ctx)
	}, nil)
}

// Restore brings an archived spectacle back to draft
func (s *SpectacleService) Restore(ctx context.Context, id uint, meta MutationMeta) (*models.Spectacle, error) {
	return s.transition(ctx, id, meta, func(f *statemachine.SpectacleFSM) error {
		return f.Restore(ctx)
	}, nil)
}

func (s *SpectacleService) transition(ctx context.Context, id uint, meta MutationMeta, event func(*statemachine.SpectacleFSM) error, mutate func(*models.Spectacle)) (*models.Spectacle, error) {
	spectacle, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := *spectacle

	if err := event(statemachine.NewSpectacleFSM(spectacle)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if mutate != nil {
		mutate(spectacle)
	}

	if err := s.repo.Update(ctx, spectacle); err != nil {
		return nil, err
	}

	if err := s.audit(ctx, models.AuditActionUpdate, id, &previous, spectacle, meta); err != nil {
		return nil, err
	}
	return spectacle, nil
}

func (s *SpectacleService) audit(ctx context.Context, action string, id uint, oldValues, newValues interface{}, meta MutationMeta) error {
	recordID := fmt.Sprintf("%d", id)
	return s.auditSvc.Record(ctx, meta.UserID, action, models.Spectacle{}.TableName(), &recordID, oldValues, newValues, meta.IPAddress, meta.UserAgent)
}

// Slugify builds a URL slug from a title: lowercased, accents folded,
// non-alphanumerics collapsed to single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading hyphens
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.Is(unicode.Latin, r):
			if folded, ok := accentFold[r]; ok {
				b.WriteRune(folded)
				lastHyphen = false
			}
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

var accentFold = map[rune]rune{
	'à': 'a', 'â': 'a', 'ä': 'a',
	'ç': 'c',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'î': 'i', 'ï': 'i',
	'ô': 'o', 'ö': 'o',
	'ù': 'u', 'û': 'u', 'ü': 'u',
	'ÿ': 'y',
	'œ': 'o',
}
