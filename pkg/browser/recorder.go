package browser

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pagerun/pkg/metrics"
	"github.com/entrhq/pagerun/pkg/types"
)

// recorderBinding is the page function the init script reports through.
const recorderBinding = "__pagerunRecord"

//go:embed recorder.js
var recorderScript string

// EventRecorder captures user interactions from every page of a context
// and forwards them to a Sink.
type EventRecorder struct {
	sink      Sink
	sessionID string
	recorded  atomic.Int64
	dropped   atomic.Int64
}

// recordedPayload is the JSON object produced by recorder.js.
type recordedPayload struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	URL    string `json:"url"`
	Value  string `json:"value"`
	TS     int64  `json:"ts"`
}

// NewEventRecorder creates a recorder that stamps events with sessionID.
func NewEventRecorder(sink Sink, sessionID string) *EventRecorder {
	return &EventRecorder{sink: sink, sessionID: sessionID}
}

// Install exposes the reporting binding and registers the init script on
// the context, so every page opened afterwards is instrumented.
func (r *EventRecorder) Install(bc playwright.BrowserContext) error {
	if err := bc.ExposeFunction(recorderBinding, r.handle); err != nil {
		return fmt.Errorf("failed to expose recorder binding: %w", err)
	}
	script := recorderScript
	if err := bc.AddInitScript(playwright.Script{Content: &script}); err != nil {
		return fmt.Errorf("failed to add recorder script: %w", err)
	}
	return nil
}

// handle is invoked by the page with a single JSON string argument.
func (r *EventRecorder) handle(args ...interface{}) interface{} {
	if len(args) != 1 {
		r.dropped.Add(1)
		return nil
	}
	raw, ok := args[0].(string)
	if !ok {
		r.dropped.Add(1)
		return nil
	}

	event, err := decodeEvent(raw)
	if err != nil {
		r.dropped.Add(1)
		return nil
	}
	if err := r.Record(event); err != nil {
		r.dropped.Add(1)
	}
	return nil
}

func decodeEvent(raw string) (*types.InteractionEvent, error) {
	var payload recordedPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}

	eventType := types.InteractionType(payload.Type)
	if !eventType.IsKnown() {
		return nil, fmt.Errorf("unknown interaction type %q", payload.Type)
	}

	event := types.NewInteractionEvent(eventType, payload.Target, payload.URL)
	event.Value = payload.Value
	if payload.TS > 0 {
		event.Timestamp = time.UnixMilli(payload.TS)
	}
	return event, nil
}

// Record stamps the event with the session ID and forwards it to the sink.
func (r *EventRecorder) Record(event *types.InteractionEvent) error {
	if event.SessionID == "" {
		event.SessionID = r.sessionID
	}
	metrics.RecordEvent(string(event.Type))
	r.recorded.Add(1)

	if r.sink == nil {
		return nil
	}
	return r.sink.Record(event)
}

// Recorded returns how many events were accepted.
func (r *EventRecorder) Recorded() int64 {
	return r.recorded.Load()
}

// Dropped returns how many reports were malformed or rejected by the sink.
func (r *EventRecorder) Dropped() int64 {
	return r.dropped.Load()
}
