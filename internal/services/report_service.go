package services

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alimgiray/contribsync/internal/models"
)

const (
	summarySheet    = "Run"
	identitiesSheet = "Identities"
)

// ReportService exports run audit records as spreadsheets
type ReportService struct {
	runService *RunService
}

// NewReportService creates a new report service
func NewReportService(runService *RunService) *ReportService {
	return &ReportService{runService: runService}
}

// ExportRun writes the run with the given ID to w as an xlsx workbook
func (s *ReportService) ExportRun(id string, w io.Writer) error {
	run, err := s.runService.GetRun(id)
	if err != nil {
		return err
	}
	return WriteRunReport(run, w)
}

// WriteRunReport renders a run summary sheet and an identities sheet
func WriteRunReport(run *models.Run, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(identitiesSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Run ID", run.ID},
		{"Repository", run.Owner + "/" + run.Repo},
		{"Manifest", run.ManifestPath},
		{"Status", string(run.Status)},
		{"Outcome", string(run.GetOutcome())},
		{"Dry run", run.DryRun},
		{"Identities", run.IdentityCount},
		{"Added", run.AddedCount},
		{"Updated", run.UpdatedCount},
		{"Error", stringValue(run.ErrorMessage)},
		{"Started", timeValue(run.StartedAt)},
		{"Completed", timeValue(run.CompletedAt)},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 28); err != nil {
		return err
	}

	header := []interface{}{"#", "Name", "Email", "URL", "Change"}
	if err := f.SetSheetRow(identitiesSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(identitiesSheet, "A1", "E1", bold); err != nil {
		return err
	}
	for i, identity := range run.Identities {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{identity.Position + 1, identity.Name, identity.Email, identity.URL, string(identity.Change)}
		if err := f.SetSheetRow(identitiesSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(identitiesSheet, "B", "D", 32); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
