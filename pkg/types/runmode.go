package types

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownRunMode is returned when a run mode is not one of the known modes.
var ErrUnknownRunMode = errors.New("unknown run mode")

// RunMode selects how a workflow is executed.
type RunMode string

const (
	// RunModeOnce executes the workflow a single time.
	RunModeOnce RunMode = "once"
	// RunModeLoop executes the workflow repeatedly until stopped.
	RunModeLoop RunMode = "loop"
)

// ParseRunMode converts s into a RunMode. Matching is case-insensitive and
// ignores surrounding whitespace.
func ParseRunMode(s string) (RunMode, error) {
	mode := RunMode(strings.ToLower(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", fmt.Errorf("%w: %q (must be 'once' or 'loop')", ErrUnknownRunMode, s)
	}
	return mode, nil
}

// IsValid reports whether m is a known run mode.
func (m RunMode) IsValid() bool {
	return m == RunModeOnce || m == RunModeLoop
}

func (m RunMode) String() string {
	return string(m)
}

// UnmarshalYAML validates run modes read from run files.
func (m *RunMode) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	mode, err := ParseRunMode(raw)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
