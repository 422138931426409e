package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"pos-proximity/internal/calculator"
	"pos-proximity/internal/excel"
	"pos-proximity/internal/metrics"
	"pos-proximity/internal/models"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source is the store snapshot an export reads.
type Source interface {
	Outlets() []models.Entity
	Producers() []models.Entity
}

type ExportParams struct {
	RadiusKm  float64
	Limit     int
	OutputDir string
}

// RunExport computes the nearby producers of every outlet and writes them to
// an xlsx file in OutputDir. It always leaves job in a terminal state.
func RunExport(ctx context.Context, job *Job, src Source, p ExportParams, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defer func() {
		if r := recover(); r != nil {
			job.Fail(fmt.Sprintf("Panic: %v", r))
		}
		status := job.Status()
		metrics.ExportJobsTotal.WithLabelValues(string(status)).Inc()
		logger.Info("export finished", zap.String("job_id", job.ID), zap.String("status", string(status)))
	}()

	outlets := src.Outlets()
	producers := src.Producers()
	job.Log(fmt.Sprintf("%d outlets and %d producers in the current dataset.", len(outlets), len(producers)))

	start := time.Now()
	rows, err := calculator.ComputeReport(ctx, outlets, producers, p.RadiusKm, p.Limit,
		func(current, total int, msg string) { job.SetProgress(current, total, msg) },
		func(msg string) { job.Log(msg) },
	)
	if err != nil {
		job.Fail(fmt.Sprintf("Calculation error: %v", err))
		return
	}
	job.Log(fmt.Sprintf("Calculation finished in %s.", time.Since(start).Round(time.Millisecond)))

	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		job.Fail(fmt.Sprintf("Output directory error: %v", err))
		return
	}

	filename := fmt.Sprintf("yakin_ureticiler_%s.xlsx", uuid.New().String())
	outputPath := filepath.Join(p.OutputDir, filename)

	job.Log("Writing result file...")
	if err := excel.WriteReport(outputPath, rows, excel.ReportSheet); err != nil {
		job.Fail(fmt.Sprintf("Write error: %v", err))
		return
	}

	job.Finish(Result{
		RadiusKm: p.RadiusKm,
		Limit:    p.Limit,
		Rows:     len(rows),
		Sheet:    excel.ReportSheet,
		Output:   outputPath,
		Filename: filename,
	})
}
