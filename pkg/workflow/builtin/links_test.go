package builtin

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	base, _ := url.Parse("https://example.com/docs/")
	html := `<html><head>
		<script>document.write('<a href="/from-script">x</a>')</script>
	</head><body>
		<a href="intro">Intro</a>
		<a href="/about#team">About</a>
		<a href="/about">About again</a>
		<a href="#top">Top</a>
		<a href="mailto:team@example.com">Mail</a>
		<a href="javascript:void(0)">Nothing</a>
		<a href="https://other.org/x">Other</a>
		<a href="/secret" rel="nofollow">Secret</a>
		<map><area href="/map-target"></map>
		<template><a href="/from-template">t</a></template>
	</body></html>`

	links, err := extractLinks(html, base)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/docs/intro",
		"https://example.com/about",
		"https://other.org/x",
		"https://example.com/map-target",
	}, links)
}

func TestExtractLinks_BaseElement(t *testing.T) {
	base, _ := url.Parse("https://example.com/a/b")
	html := `<html><head><base href="https://cdn.example.com/root/"></head><body><a href="page">P</a></body></html>`

	links, err := extractLinks(html, base)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/root/page"}, links)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com", "https://example.com/"},
		{"https://Example.COM/Docs", "https://example.com/Docs"},
		{"https://example.com:443/a", "https://example.com/a"},
		{"http://example.com:80", "http://example.com/"},
		{"http://example.com:8080/a#frag", "http://example.com:8080/a"},
		{"https://example.com:80/", "https://example.com:80/"},
		{"https://example.com/a?q=1#x", "https://example.com/a?q=1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := url.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, normalizeURL(u))
		})
	}
}
