package types

import "time"

// InteractionType defines the kind of user interaction captured in an
// instrumented browser context.
type InteractionType string

const (
	InteractionClick  InteractionType = "click"  // InteractionClick indicates a mouse click on an element.
	InteractionInput  InteractionType = "input"  // InteractionInput indicates text typed into a field.
	InteractionChange InteractionType = "change" // InteractionChange indicates a committed value change (select, checkbox).
	InteractionSubmit InteractionType = "submit" // InteractionSubmit indicates a form submission.
	InteractionScroll InteractionType = "scroll" // InteractionScroll indicates a (throttled) scroll of the document.
	InteractionLoad   InteractionType = "load"   // InteractionLoad indicates a document finished loading.
)

// KnownInteractionTypes lists every interaction type the recorder reports.
var KnownInteractionTypes = []InteractionType{
	InteractionClick,
	InteractionInput,
	InteractionChange,
	InteractionSubmit,
	InteractionScroll,
	InteractionLoad,
}

// IsKnown reports whether t is one of the recorded interaction types.
func (t InteractionType) IsKnown() bool {
	for _, known := range KnownInteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// InteractionEvent represents a single interaction reported by a page.
type InteractionEvent struct {
	// Type indicates the kind of interaction.
	Type InteractionType `json:"type"`

	// Target is a short CSS-like path of the element involved (empty for
	// document-level events).
	Target string `json:"target,omitempty"`

	// URL is the page URL at the time of the interaction.
	URL string `json:"url"`

	// Value holds the field value for input/change events. Password fields
	// are never reported with a value.
	Value string `json:"value,omitempty"`

	// Timestamp is when the page observed the interaction.
	Timestamp time.Time `json:"timestamp"`

	// SessionID ties the event to the process that recorded it.
	SessionID string `json:"session_id,omitempty"`
}

// NewInteractionEvent creates an event stamped with the current time.
func NewInteractionEvent(eventType InteractionType, target, url string) *InteractionEvent {
	return &InteractionEvent{
		Type:      eventType,
		Target:    target,
		URL:       url,
		Timestamp: time.Now(),
	}
}
