package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/comedialab/comedia-api/internal/models"
	"github.com/comedialab/comedia-api/internal/repository"
)

// ReportService generates print documents for front-of-house use
type ReportService struct {
	spectacleRepo repository.SpectacleRepository
	pressRepo     repository.PressRepository
}

func NewReportService(spectacleRepo repository.SpectacleRepository, pressRepo repository.PressRepository) *ReportService {
	return &ReportService{
		spectacleRepo: spectacleRepo,
		pressRepo:     pressRepo,
	}
}

type pressKitData struct {
	Spectacle *models.Spectacle
	Articles  []models.PressArticle
}

// GeneratePressKitPDF renders the dossier de presse for a spectacle: its
// fiche plus every associated press article
func (s *ReportService) GeneratePressKitPDF(ctx context.Context, spectacleID uint) (*bytes.Buffer, error) {
	spectacle, err := s.spectacleRepo.FindByID(ctx, spectacleID)
	if err != nil {
		return nil, err
	}

	articles, err := s.pressRepo.FindBySpectacle(ctx, spectacleID)
	if err != nil {
		return nil, err
	}

	return s.generatePDF("press_kit.html", pressKitData{
		Spectacle: spectacle,
		Articles:  articles,
	})
}

// Helper to generate PDF from HTML template
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	// Try path relative to project root (Prod)
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		// Try path relative to package (Test)
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s (path: %s): %w", templateName, tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}
