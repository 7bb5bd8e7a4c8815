package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cloud-gov/audit-exporter/models"
	"github.com/cloud-gov/audit-exporter/services"
)

// RawFileName returns the raw export file name for a date.
func RawFileName(date time.Time) string {
	return fmt.Sprintf("Events_%s.csv", date.Format("2006-01-02"))
}

// ProcessedFileName returns the processed export file name for a date.
func ProcessedFileName(date time.Time) string {
	return fmt.Sprintf("Events_%s_processed.csv", date.Format("2006-01-02"))
}

// Writer serializes export batches into dated CSV files under Dir.
type Writer struct {
	Dir    string
	logger *zap.Logger
}

// NewWriter creates a new Writer for the given export directory
func NewWriter(dir string, logger *zap.Logger) *Writer {
	return &Writer{Dir: dir, logger: logger}
}

// WriteRaw writes the batch to Events_<date>.csv: a header row followed
// by one row per event, fields in models.CSVHeader order. A batch with
// zero events produces a header-only file and is a success.
func (w *Writer) WriteRaw(batch models.ExportBatch, date time.Time) (string, error) {
	path := filepath.Join(w.Dir, RawFileName(date))
	if err := w.writeCSV(path, batch, nil); err != nil {
		return "", err
	}
	w.logger.Info("wrote raw export",
		zap.String("path", path),
		zap.Int("events", batch.Len()))
	return path, nil
}

// WriteProcessed writes the transformed batch to
// Events_<date>_processed.csv.
func (w *Writer) WriteProcessed(batch models.ExportBatch, date time.Time, transform Transform) (string, error) {
	if transform == nil {
		transform = Identity
	}
	path := filepath.Join(w.Dir, ProcessedFileName(date))
	if err := w.writeCSV(path, batch, transform); err != nil {
		return "", err
	}
	w.logger.Info("wrote processed export", zap.String("path", path))
	return path, nil
}

// writeCSV creates path and writes header plus rows. encoding/csv
// handles quoting of delimiters, quotes and newlines.
func (w *Writer) writeCSV(path string, batch models.ExportBatch, transform Transform) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return services.WrapWrite("failed to create export directory", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return services.WrapWrite("failed to create export file", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(models.CSVHeader); err != nil {
		return services.WrapWrite("failed to write csv header", err)
	}
	for _, event := range batch {
		if transform != nil {
			transformed, keep := transform(event)
			if !keep {
				continue
			}
			event = transformed
		}
		if err := cw.Write(event.CSVRow()); err != nil {
			return services.WrapWrite("failed to write csv row", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return services.WrapWrite("failed to flush csv", err)
	}
	if err := f.Close(); err != nil {
		return services.WrapWrite("failed to close export file", err)
	}
	return nil
}

// RawFileExists reports whether the raw export for date is present.
// Callers treat absence after a successful run as a hard failure.
func RawFileExists(dir string, date time.Time) bool {
	info, err := os.Stat(filepath.Join(dir, RawFileName(date)))
	return err == nil && !info.IsDir()
}
