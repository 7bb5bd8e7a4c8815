package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloud-gov/audit-exporter/models"
	"github.com/cloud-gov/audit-exporter/services"
	"github.com/cloud-gov/audit-exporter/services/cloudfoundry"
	"github.com/cloud-gov/audit-exporter/services/export"
)

// State identifies where a run is in its lifecycle. StateFailed is
// terminal; there is no recovery path back to a prior state.
type State string

const (
	StateStart         State = "start"
	StateAuthenticated State = "authenticated"
	StateFetched       State = "fetched"
	StateRawWritten    State = "raw_written"
	StateProcessed     State = "processed"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// Authenticator establishes a session against the audit-log provider.
type Authenticator interface {
	Login(ctx context.Context, creds cloudfoundry.Credentials) error
}

// EventSource fetches every audit event within a window.
type EventSource interface {
	FetchEvents(ctx context.Context, window models.Window) (models.ExportBatch, error)
}

// ExportWriter serializes a batch into the raw and processed files.
type ExportWriter interface {
	WriteRaw(batch models.ExportBatch, date time.Time) (string, error)
	WriteProcessed(batch models.ExportBatch, date time.Time, transform export.Transform) (string, error)
}

// Config holds configuration for the pipeline Service
type Config struct {
	Credentials cloudfoundry.Credentials
	ExportDir   string
	WindowDays  int
	Transform   export.Transform
	// Now allows tests to pin the clock; zero means time.Now.
	Now func() time.Time
}

// RunResult summarizes a completed or aborted run.
type RunResult struct {
	RunID         uuid.UUID
	State         State
	Window        models.Window
	EventCount    int
	RawPath       string
	ProcessedPath string
	Duration      time.Duration
}

// Service executes the export pipeline: Authenticate -> Fetch ->
// WriteRaw -> Process. Stages run strictly in order and the first
// error aborts the run; nothing is retried within an invocation.
type Service struct {
	auth   Authenticator
	source EventSource
	writer ExportWriter
	config Config
	logger *zap.Logger
}

// NewService creates a new pipeline Service
func NewService(auth Authenticator, source EventSource, writer ExportWriter, config Config, logger *zap.Logger) *Service {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.WindowDays <= 0 {
		config.WindowDays = 7
	}
	return &Service{
		auth:   auth,
		source: source,
		writer: writer,
		config: config,
		logger: logger,
	}
}

// Run performs one full export. The returned RunResult is non-nil even
// on failure so callers can report how far the run progressed.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	start := s.config.Now()
	result := &RunResult{
		RunID:  uuid.New(),
		State:  StateStart,
		Window: models.LastDays(start, s.config.WindowDays),
	}
	logger := s.logger.With(zap.String("run_id", result.RunID.String()))

	fail := func(err error) (*RunResult, error) {
		result.State = StateFailed
		result.Duration = s.config.Now().Sub(start)
		logger.Error("run failed",
			zap.String("error_type", string(services.GetErrorType(err))),
			zap.Error(err))
		return result, err
	}

	logger.Info("starting export run",
		zap.Time("window_from", result.Window.From),
		zap.Time("window_to", result.Window.To))

	if err := s.auth.Login(ctx, s.config.Credentials); err != nil {
		return fail(err)
	}
	result.State = StateAuthenticated

	batch, err := s.source.FetchEvents(ctx, result.Window)
	if err != nil {
		return fail(err)
	}
	result.State = StateFetched
	result.EventCount = batch.Len()

	rawPath, err := s.writer.WriteRaw(batch, start)
	if err != nil {
		return fail(err)
	}
	result.State = StateRawWritten
	result.RawPath = rawPath

	processedPath, err := s.writer.WriteProcessed(batch, start, s.config.Transform)
	if err != nil {
		return fail(err)
	}
	result.State = StateProcessed
	result.ProcessedPath = processedPath

	// The caller's contract treats a missing raw file as job failure
	// regardless of exit code; checking here keeps the exit code honest.
	if !export.RawFileExists(s.config.ExportDir, start) {
		return fail(services.ErrRawFileMissing)
	}

	result.State = StateDone
	result.Duration = s.config.Now().Sub(start)
	logger.Info("export run complete",
		zap.Int("events", result.EventCount),
		zap.String("raw", result.RawPath),
		zap.String("processed", result.ProcessedPath),
		zap.Duration("duration", result.Duration))
	return result, nil
}
