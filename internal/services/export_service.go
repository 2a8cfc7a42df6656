package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/comedialab/comedia-api/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders the analytics overview into downloadable documents
type ExportService struct {
	analyticsSvc *AnalyticsService
}

func NewExportService(analyticsSvc *AnalyticsService) *ExportService {
	return &ExportService{analyticsSvc: analyticsSvc}
}

// overviewRows flattens the dashboard numbers into label/value pairs shared
// by every output format
func overviewRows(overview *models.AnalyticsOverview) [][2]string {
	return [][2]string{
		{"Spectacles", fmt.Sprintf("%d", overview.Spectacles)},
		{"Spectacles publiés", fmt.Sprintf("%d", overview.PublishedSpectacles)},
		{"Articles de presse", fmt.Sprintf("%d", overview.PressArticles)},
		{"Partenaires", fmt.Sprintf("%d", overview.Partners)},
		{"Membres de l'équipe", fmt.Sprintf("%d", overview.TeamMembers)},
		{"Médias", fmt.Sprintf("%d", overview.MediaAssets)},
		{"Stockage utilisé (octets)", fmt.Sprintf("%d", overview.StorageUsedBytes)},
		{"Insertions (30 j)", fmt.Sprintf("%d", overview.ActionBreakdown.Inserts)},
		{"Modifications (30 j)", fmt.Sprintf("%d", overview.ActionBreakdown.Updates)},
		{"Suppressions (30 j)", fmt.Sprintf("%d", overview.ActionBreakdown.Deletes)},
	}
}

func (s *ExportService) ExportCSV(ctx context.Context, overview *models.AnalyticsOverview) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Rapport d'activité", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Métrique", "Valeur"})
	for _, row := range overviewRows(overview) {
		_ = writer.Write([]string{row[0], row[1]})
	}

	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Activité quotidienne"})
	_ = writer.Write([]string{"Jour", "Événements"})
	for _, point := range overview.ActivityTrend {
		_ = writer.Write([]string{point.Day, fmt.Sprintf("%d", point.Count)})
	}

	writer.Flush()

	filename := fmt.Sprintf("analytics-export-%d.csv", time.Now().UnixMilli())
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, overview *models.AnalyticsOverview) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Tableau de bord"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Rapport d'activité")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Métrique")
	_ = f.SetCellValue(sheet, "B3", "Valeur")

	row := 4
	for _, pair := range overviewRows(overview) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), pair[0])
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), pair[1])
		row++
	}

	row += 2
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Jour")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Événements")
	for _, point := range overview.ActivityTrend {
		row++
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), point.Day)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), point.Count)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("analytics-export-%d.xlsx", time.Now().UnixMilli())
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportPDF(ctx context.Context, overview *models.AnalyticsOverview) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, tr("Rapport d'activité"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	for _, pair := range overviewRows(overview) {
		pdf.Cell(80, 8, tr(pair[0]+":"))
		pdf.Cell(40, 8, pair[1])
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, tr("Activité quotidienne"))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, point := range overview.ActivityTrend {
		pdf.Cell(60, 6, point.Day)
		pdf.Cell(40, 6, fmt.Sprintf("%d", point.Count))
		pdf.Ln(5)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("analytics-export-%d.pdf", time.Now().UnixMilli())
	return buf.Bytes(), filename, nil
}
