package export

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// CleanupCSV removes every *.csv file in dir. It is best effort and
// runs regardless of run outcome so partial or sensitive exports never
// outlive the job. The returned count is the number of files removed;
// the error aggregates nothing fatal, only the last removal failure.
func CleanupCSV(dir string, logger *zap.Logger) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return 0, err
	}

	removed := 0
	var lastErr error
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			logger.Warn("failed to remove export file",
				zap.String("path", path),
				zap.Error(err))
			lastErr = err
			continue
		}
		removed++
	}

	logger.Info("cleaned export directory",
		zap.String("dir", dir),
		zap.Int("removed", removed))
	return removed, lastErr
}
