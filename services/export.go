package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"recipe-search-platform/models"

	"github.com/xuri/excelize/v2"
)

// RunLister is the slice of the run store the exporter needs.
type RunLister interface {
	ListRuns(ctx context.Context, limit int64) ([]models.BackfillRun, error)
}

// ExportService renders backfill run history as an Excel workbook.
type ExportService struct {
	runs RunLister
}

func NewExportService(runs RunLister) *ExportService {
	return &ExportService{runs: runs}
}

var runSheetHeaders = []string{
	"Run ID", "State", "Started At", "Finished At", "Duration (ms)",
	"Total Eligible", "Processed", "Errored", "Attempted Persist",
	"Verified Count", "Error",
}

// ExportRunsExcel returns an xlsx file with the most recent runs.
func (s *ExportService) ExportRunsExcel(ctx context.Context, limit int64) ([]byte, int, error) {
	runs, err := s.runs.ListRuns(ctx, limit)
	if err != nil {
		return nil, 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Backfill Runs"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, 0, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, 0, err
	}

	for col, header := range runSheetHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, 0, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, 0, err
		}
	}

	for row, run := range runs {
		values := []interface{}{
			run.RunID,
			run.State,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.FinishedAt.Format("2006-01-02 15:04:05"),
			run.DurationMS,
			run.TotalEligible,
			run.Processed,
			run.Errored,
			run.AttemptedPersist,
			run.VerifiedCount,
			run.Error,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, 0, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, 0, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), len(runs), nil
}

// ExportFilename builds a download name like backfill_runs_50.xlsx.
func ExportFilename(limit int64) string {
	return "backfill_runs_" + strconv.FormatInt(limit, 10) + ".xlsx"
}
