package workflow

import (
	"context"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopFactory(name string) Factory {
	return func(playwright.Page) (Workflow, error) {
		return Func{ID: name, Fn: func(context.Context) error { return nil }}, nil
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("visit", noopFactory("visit")))
	require.NoError(t, reg.Register("crawl", noopFactory("crawl")))

	assert.Equal(t, []string{"visit", "crawl"}, reg.Names())

	factory, err := reg.Get("crawl")
	require.NoError(t, err)
	wf, err := factory(nil)
	require.NoError(t, err)
	assert.Equal(t, "crawl", wf.Name())
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("visit", noopFactory("visit")))

	assert.Error(t, reg.Register("visit", noopFactory("visit")), "duplicate names are rejected")
	assert.Error(t, reg.Register("", noopFactory("")))
	assert.Error(t, reg.Register("nil", nil))

	_, err := reg.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownWorkflow)
}

func TestRegistry_NamesIsACopy(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("visit", noopFactory("visit")))

	names := reg.Names()
	names[0] = "mutated"

	assert.Equal(t, []string{"visit"}, reg.Names())
}
