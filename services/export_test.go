package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"recipe-search-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeRunLister struct {
	runs []models.BackfillRun
	err  error
}

func (f *fakeRunLister) ListRuns(ctx context.Context, limit int64) ([]models.BackfillRun, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && int64(len(f.runs)) > limit {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func TestExportRunsExcel(t *testing.T) {
	started := time.Date(2026, 8, 20, 3, 0, 0, 0, time.UTC)
	lister := &fakeRunLister{runs: []models.BackfillRun{
		{
			RunID:            "run-1",
			State:            models.RunStateDone,
			TotalEligible:    120,
			Processed:        118,
			Errored:          2,
			AttemptedPersist: 118,
			VerifiedCount:    118,
			StartedAt:        started,
			FinishedAt:       started.Add(90 * time.Second),
			DurationMS:       90000,
		},
		{
			RunID:      "run-2",
			State:      models.RunStateFailed,
			Error:      "mongo unreachable",
			StartedAt:  started.Add(24 * time.Hour),
			FinishedAt: started.Add(24*time.Hour + time.Second),
			DurationMS: 1000,
		},
	}}

	data, count, err := NewExportService(lister).ExportRunsExcel(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Backfill Runs"
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per run")
	assert.Equal(t, runSheetHeaders, rows[0])

	assert.Equal(t, "run-1", rows[1][0])
	assert.Equal(t, models.RunStateDone, rows[1][1])
	assert.Equal(t, "120", rows[1][5])

	assert.Equal(t, "run-2", rows[2][0])
	assert.Equal(t, models.RunStateFailed, rows[2][1])
	assert.Equal(t, "mongo unreachable", rows[2][10])
}

func TestExportRunsExcelEmptyHistory(t *testing.T) {
	data, count, err := NewExportService(&fakeRunLister{}).ExportRunsExcel(context.Background(), 50)
	require.NoError(t, err)
	assert.Zero(t, count)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Backfill Runs")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestExportRunsExcelPropagatesStoreError(t *testing.T) {
	lister := &fakeRunLister{err: errors.New("cursor timeout")}
	_, _, err := NewExportService(lister).ExportRunsExcel(context.Background(), 50)
	assert.Error(t, err)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "backfill_runs_50.xlsx", ExportFilename(50))
}
