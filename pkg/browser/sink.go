package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/entrhq/pagerun/pkg/types"
)

// Sink receives interaction events captured by an EventRecorder.
type Sink interface {
	Record(event *types.InteractionEvent) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event *types.InteractionEvent) error

// Record calls f(event).
func (f SinkFunc) Record(event *types.InteractionEvent) error {
	return f(event)
}

// DebugLogger is the logging capability LogSink needs.
type DebugLogger interface {
	Debugf(format string, v ...interface{})
}

// LogSink writes each event as a debug log line.
type LogSink struct {
	Logger DebugLogger
}

// Record logs the event.
func (s LogSink) Record(event *types.InteractionEvent) error {
	if s.Logger == nil {
		return nil
	}
	if event.Value != "" {
		s.Logger.Debugf("event %s target=%q value=%q url=%s", event.Type, event.Target, event.Value, event.URL)
	} else {
		s.Logger.Debugf("event %s target=%q url=%s", event.Type, event.Target, event.URL)
	}
	return nil
}

// MultiSink fans events out to every sink and joins their errors.
type MultiSink []Sink

// Record forwards the event to each sink.
func (m MultiSink) Record(event *types.InteractionEvent) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Record(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// JSONLSink appends events to a file, one JSON object per line.
type JSONLSink struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
	path    string
}

// NewJSONLSink opens (creating if needed) the file at path for appending.
func NewJSONLSink(path string) (*JSONLSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create event log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}

	return &JSONLSink{
		file:    file,
		encoder: json.NewEncoder(file),
		path:    path,
	}, nil
}

// Record appends the event as a single line.
func (s *JSONLSink) Record(event *types.InteractionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return fmt.Errorf("event log %s is closed", s.path)
	}
	if err := s.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// Path returns the file the sink appends to.
func (s *JSONLSink) Path() string {
	return s.path
}

// Close closes the underlying file. Safe to call multiple times.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
