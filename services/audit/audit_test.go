package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileAuditLoggerWritesEvents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "LowVolume")
	logger := NewFileAuditLogger(dir, false)

	require.NoError(t, logger.LogBookingActivity("Flight Booked", "BK-1A2B3C4D", "Passenger: John Doe, Flight: AA123"))
	require.NoError(t, logger.RecordPricingCalculation("Base: 1101.37", 1171.37, "AA123 on 2025-07-03"))

	data, err := os.ReadFile(filepath.Join(dir, "booking-audit.log"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "booking activity")
	assert.Contains(t, content, "BK-1A2B3C4D")
	assert.Contains(t, content, "pricing calculation")
	assert.Contains(t, content, "1171.37")
}

func TestFileAuditLoggersShareSinkPerDirectory(t *testing.T) {
	dir := t.TempDir()

	first := NewFileAuditLogger(dir, false).(*FileAuditLogger)
	second := NewFileAuditLogger(dir, false).(*FileAuditLogger)
	other := NewFileAuditLogger(filepath.Join(dir, "HighVolume"), false).(*FileAuditLogger)

	// One file handle per log directory, however many loggers are built.
	assert.Same(t, first.sink, second.sink)
	assert.NotSame(t, first.sink, other.sink)

	require.NoError(t, first.LogBookingActivity("Flight Booked", "BK-AAAAAAAA", "John Doe"))
	assert.Same(t, first.sink.get(), second.sink.get())
}

func TestFlushAndArchiveLogs(t *testing.T) {
	dir := t.TempDir()
	logger := NewFileAuditLogger(dir, false)

	require.NoError(t, logger.LogBookingActivity("Flight Booked", "BK-1A2B3C4D", "John Doe"))
	require.NoError(t, logger.FlushAndArchiveLogs())

	// The active file was moved aside with a timestamp suffix.
	_, err := os.Stat(filepath.Join(dir, "booking-audit.log"))
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "booking-audit.log.")
}

func TestWritesAfterArchiveStartFreshFile(t *testing.T) {
	dir := t.TempDir()
	logger := NewFileAuditLogger(dir, false)

	require.NoError(t, logger.LogBookingActivity("Flight Booked", "BK-BEFORE01", "John Doe"))
	require.NoError(t, logger.FlushAndArchiveLogs())
	require.NoError(t, logger.LogBookingActivity("Flight Booked", "BK-AFTER002", "Jane Roe"))

	// Post-archive events land in a fresh active file, not the archive.
	data, err := os.ReadFile(filepath.Join(dir, "booking-audit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "BK-AFTER002")
	assert.NotContains(t, string(data), "BK-BEFORE01")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestFlushAndArchiveLogsWithoutFile(t *testing.T) {
	logger := NewFileAuditLogger(t.TempDir(), false)
	assert.NoError(t, logger.FlushAndArchiveLogs())
}
