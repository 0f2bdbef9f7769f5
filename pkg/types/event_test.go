package types

import (
	"testing"
	"time"
)

func TestInteractionType(t *testing.T) {
	tests := []struct {
		eventType InteractionType
		expected  string
	}{
		{InteractionClick, "click"},
		{InteractionInput, "input"},
		{InteractionChange, "change"},
		{InteractionSubmit, "submit"},
		{InteractionScroll, "scroll"},
		{InteractionLoad, "load"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if string(tt.eventType) != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, tt.eventType)
			}
			if !tt.eventType.IsKnown() {
				t.Errorf("Expected %q to be known", tt.eventType)
			}
		})
	}

	if InteractionType("hover").IsKnown() {
		t.Error("Expected hover to be unknown")
	}
}

func TestNewInteractionEvent(t *testing.T) {
	before := time.Now()
	event := NewInteractionEvent(InteractionClick, "button#go", "https://example.com/")

	if event.Type != InteractionClick {
		t.Errorf("Expected click, got %q", event.Type)
	}
	if event.Target != "button#go" {
		t.Errorf("Expected target button#go, got %q", event.Target)
	}
	if event.URL != "https://example.com/" {
		t.Errorf("Expected URL to be preserved, got %q", event.URL)
	}
	if event.Timestamp.Before(before) {
		t.Error("Expected timestamp to be set to now")
	}
}
