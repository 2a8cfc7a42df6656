package statemachine

import (
	"context"
	"fmt"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/looplab/fsm"
)

// SpectacleFSM wraps a spectacle with its publication state machine
type SpectacleFSM struct {
	spectacle *models.Spectacle
	fsm       *fsm.FSM
}

// NewSpectacleFSM creates a new spectacle state machine
func NewSpectacleFSM(spectacle *models.Spectacle) *SpectacleFSM {
	sfsm := &SpectacleFSM{
		spectacle: spectacle,
	}

	sfsm.fsm = fsm.NewFSM(
		spectacle.Status,
		fsm.Events{
			// draft → published
			{Name: "publish", Src: []string{models.SpectacleStatusDraft}, Dst: models.SpectacleStatusPublished},

			// published → draft
			{Name: "unpublish", Src: []string{models.SpectacleStatusPublished}, Dst: models.SpectacleStatusDraft},

			// published → archived
			{Name: "archive", Src: []string{models.SpectacleStatusPublished}, Dst: models.SpectacleStatusArchived},

			// archived → draft
			{Name: "restore", Src: []string{models.SpectacleStatusArchived}, Dst: models.SpectacleStatusDraft},
		},
		fsm.Callbacks{},
	)

	return sfsm
}

// Publish transitions the spectacle to published
func (s *SpectacleFSM) Publish(ctx context.Context) error {
	if !s.spectacle.MayPublish() {
		return fmt.Errorf("spectacle cannot be published in current state: %s", s.spectacle.Status)
	}

	if err := s.fsm.Event(ctx, "publish"); err != nil {
		return fmt.Errorf("failed to publish spectacle: %w", err)
	}

	s.spectacle.Status = s.fsm.Current()
	return nil
}

// Unpublish transitions the spectacle back to draft
func (s *SpectacleFSM) Unpublish(ctx context.Context) error {
	if !s.spectacle.MayUnpublish() {
		return fmt.Errorf("spectacle cannot be unpublished in current state: %s", s.spectacle.Status)
	}

	if err := s.fsm.Event(ctx, "unpublish"); err != nil {
		return fmt.Errorf("failed to unpublish spectacle: %w", err)
	}

	s.spectacle.Status = s.fsm.Current()
	return nil
}

// Archive transitions the spectacle to archived
func (s *SpectacleFSM) Archive(ctx context.Context) error {
	if !s.spectacle.MayArchive() {
		return fmt.Errorf("spectacle cannot be archived in current state: %s", s.spectacle.Status)
	}

	if err := s.fsm.Event(ctx, "archive"); err != nil {
		return fmt.Errorf("failed to archive spectacle: %w", err)
	}

	s.spectacle.Status = s.fsm.Current()
	return nil
}

// Restore brings an archived spectacle back to draft
func (s *SpectacleFSM) Restore(ctx context.Context) error {
	if !s.spectacle.MayRestore() {
		return fmt.Errorf("spectacle cannot be restored in current state: %s", s.spectacle.Status)
	}

	if err := s.fsm.Event(ctx, "restore"); err != nil {
		return fmt.Errorf("failed to restore spectacle: %w", err)
	}

	s.spectacle.Status = s.fsm.Current()
	return nil
}

// Current returns the current state
func (s *SpectacleFSM) Current() string {
	return s.fsm.Current()
}
