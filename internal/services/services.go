package services

import (
	"github.com/comedialab/comedia-api/internal/config"
	"github.com/comedialab/comedia-api/internal/jobs"
	"github.com/comedialab/comedia-api/internal/repository"
	"github.com/comedialab/comedia-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Spectacle *SpectacleService
	Press     *PressService
	Partner   *PartnerService
	Media     *MediaService
	Audit     *AuditService
	Analytics *AnalyticsService
	Export    *ExportService
	Report    *ReportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, store *storage.LocalStorage, worker *jobs.Worker, cfg *config.Config) *Services {
	auditSvc := NewAuditService(repos.Audit, cfg.AuditRetentionDays)
	analyticsSvc := NewAnalyticsService(repos.Analytics, repos.Media)

	return &Services{
		Spectacle: NewSpectacleService(repos.Spectacle, auditSvc),
		Press:     NewPressService(repos.Press, repos.Spectacle, auditSvc),
		Partner:   NewPartnerService(repos.Partner, repos.Team, auditSvc),
		Media:     NewMediaService(repos.Media, store, worker, auditSvc),
		Audit:     auditSvc,
		Analytics: analyticsSvc,
		Export:    NewExportService(analyticsSvc),
		Report:    NewReportService(repos.Spectacle, repos.Press),
	}
}
