// Package logging routes the standard logger to a rotated debug file.
// The terminal belongs to the game, so log output never goes to stdout or stderr.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultDir is used when no directory is configured
	DefaultDir = "logs"

	// FileName is the active log file inside the log directory
	FileName = "rich-engine.log"

	// MaxSize triggers rotation of the active log file at startup
	MaxSize = 10 * 1024 * 1024
)

// Setup configures the standard logger.
// Without debug all output is discarded and the returned file is nil.
// With debug, dir is created and the active file rotated when it exceeds MaxSize.
// The caller closes the returned file on exit.
func Setup(debug bool, dir string) (*os.File, error) {
	if !debug {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	if dir == "" {
		dir = DefaultDir
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := rotate(path); err != nil {
		log.SetOutput(io.Discard)
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f, nil
}

// rotate renames an oversized log to a timestamped sibling
func rotate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() <= MaxSize {
		return nil
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	rotated := filepath.Join(filepath.Dir(path), fmt.Sprintf("%s-%s.log", base, time.Now().Format("20060102-150405")))
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}
