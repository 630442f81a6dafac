// Package logging sets up the charmbracelet logger. The terminal belongs to
// the TUI, so records go to a size-rotated file or nowhere.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// MaxLogSize is the file size that triggers rotation (10MB).
	MaxLogSize = 10 * 1024 * 1024
	// DebugFile is used when debugging is on and no file is configured.
	DebugFile = "debug.log"
)

// Options selects where and how much to log.
type Options struct {
	Level string
	File  string
	Debug bool
}

// File is an append-only log file rotated once it grows past maxSize.
type File struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	maxSize int64
	now     func() time.Time
}

// OpenFile opens path for appending, creating its directory.
func OpenFile(path string, maxSize int64) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &File{file: f, path: path, maxSize: maxSize, now: time.Now}, nil
}

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.rotateIfNeeded(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to rotate log: %v\n", err)
	}
	return f.file.Write(p)
}

// Path returns the live file path.
func (f *File) Path() string { return f.path }

// rotateIfNeeded moves a full file aside under a timestamped name.
func (f *File) rotateIfNeeded() error {
	info, err := f.file.Stat()
	if err != nil {
		return err
	}
	if f.maxSize <= 0 || info.Size() < f.maxSize {
		return nil
	}

	if err := f.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file for rotation: %w", err)
	}
	if err := os.Rename(f.path, archiveName(f.path, f.now())); err != nil {
		var reopenErr error
		f.file, reopenErr = os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		return errors.Join(fmt.Errorf("failed to rotate log file: %w", err), reopenErr)
	}

	f.file, err = os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create new log file after rotation: %w", err)
	}
	return nil
}

// archiveName turns quokkaq.log into quokkaq_20060102_150405.log.
func archiveName(path string, t time.Time) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + t.Format("20060102_150405") + ext
}

// Close closes the file.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the application logger and installs it as the default. The
// returned closer must be closed on exit.
func Setup(opts Options) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		l, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse log level: %w", err)
		}
		level = l
	}
	if opts.Debug {
		level = log.DebugLevel
	}

	path := opts.File
	if path == "" && opts.Debug {
		path = DebugFile
	}

	var (
		w      io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)
	if path != "" {
		f, err := OpenFile(path, MaxLogSize)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "quokkaq",
	})
	log.SetDefault(logger)
	return logger, closer, nil
}

// Component returns a child logger tagged with the component name.
func Component(l *log.Logger, name string) *log.Logger {
	return l.With("component", name)
}
