package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"skybook/services/booking"
	"skybook/utils"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// auditSink is the shared write handle for one audit log file. The
// coordinator constructs an audit logger per booking attempt but the
// underlying zap logger holds an open file descriptor, so sinks are cached
// per file path and reused across attempts.
type auditSink struct {
	mu      sync.Mutex
	logger  *zap.Logger
	dir     string
	path    string
	verbose bool
}

var (
	sinksMu sync.Mutex
	sinks   = make(map[string]*auditSink)
)

// sinkFor returns the shared sink for the log directory, creating the cache
// entry on first use. The first caller's verbose flag sticks for the
// lifetime of the sink.
func sinkFor(logDirectory string, verboseMode bool) *auditSink {
	filePath := filepath.Join(logDirectory, "booking-audit.log")

	sinksMu.Lock()
	defer sinksMu.Unlock()
	if s, ok := sinks[filePath]; ok {
		return s
	}
	s := &auditSink{dir: logDirectory, path: filePath, verbose: verboseMode}
	sinks[filePath] = s
	return s
}

// get returns the sink's zap logger, opening the log file on demand. If the
// file sink cannot be built the process logger is used so audit events are
// never silently dropped; the failure is not cached, so a later attempt may
// recover.
func (s *auditSink) get() *zap.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logger != nil {
		return s.logger
	}

	logger, err := buildSink(s.dir, s.path, s.verbose)
	if err != nil {
		utils.GetLogger().Warn("falling back to process logger for audit events", zap.Error(err))
		return utils.GetLogger()
	}
	s.logger = logger
	return s.logger
}

// archive syncs the sink, moves the current log file aside with a timestamp
// suffix, and drops the open handle so the next write reopens a fresh file.
func (s *auditSink) archive() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.logger != nil {
		if err := s.logger.Sync(); err != nil {
			return fmt.Errorf("failed to sync audit log: %w", err)
		}
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}
	archived := fmt.Sprintf("%s.%s", s.path, time.Now().Format("20060102-150405"))
	if err := os.Rename(s.path, archived); err != nil {
		return fmt.Errorf("failed to archive audit log: %w", err)
	}
	s.logger = nil
	return nil
}

func buildSink(logDirectory, filePath string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(logDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory %s: %w", logDirectory, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.OutputPaths = []string{filePath}
	if verbose {
		cfg.OutputPaths = append(cfg.OutputPaths, "stdout")
	}
	return cfg.Build()
}

// FileAuditLogger implements booking.AuditLogger with a JSON-lines sink
// under the coordinator-derived log directory. Verbose mode mirrors every
// event to the process logger.
type FileAuditLogger struct {
	sink *auditSink
}

// NewFileAuditLogger creates an audit logger writing to
// <logDirectory>/booking-audit.log. The directory is created on demand and
// the file handle is shared with every other logger for the same directory.
func NewFileAuditLogger(logDirectory string, verboseMode bool) booking.AuditLogger {
	return &FileAuditLogger{sink: sinkFor(logDirectory, verboseMode)}
}

func (a *FileAuditLogger) LogBookingActivity(activity, bookingRef, userInfo string) error {
	a.sink.get().Info("booking activity",
		zap.String("activity", activity),
		zap.String("bookingRef", bookingRef),
		zap.String("userInfo", userInfo))
	return nil
}

func (a *FileAuditLogger) RecordPricingCalculation(calculationDetails string, finalPrice float64, flightInfo string) error {
	a.sink.get().Info("pricing calculation",
		zap.String("details", calculationDetails),
		zap.Float64("finalPrice", finalPrice),
		zap.String("flightInfo", flightInfo))
	return nil
}

func (a *FileAuditLogger) LogErrorWithAlert(err error, context, bookingRef string) error {
	a.sink.get().Error("booking error",
		zap.Error(err),
		zap.String("context", context),
		zap.String("bookingRef", bookingRef))
	return nil
}

// FlushAndArchiveLogs moves the current log file aside with a timestamp
// suffix; the next write starts a fresh file.
func (a *FileAuditLogger) FlushAndArchiveLogs() error {
	return a.sink.archive()
}
