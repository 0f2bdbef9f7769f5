package builtin

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// extractLinks parses rawHTML and returns the absolute http(s) targets of
// its anchors, resolved against base, without fragments, deduplicated, in
// document order. Links inside skipped elements (scripts, templates, ...)
// and rel="nofollow" links are ignored.
func extractLinks(rawHTML string, base *url.URL) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	if href := baseHref(doc); href != "" {
		if resolved, err := base.Parse(href); err == nil {
			base = resolved
		}
	}

	seen := make(map[string]bool)
	var links []string
	collectLinks(doc, base, seen, &links)
	return links, nil
}

func collectLinks(n *html.Node, base *url.URL, seen map[string]bool, links *[]string) {
	if n.Type == html.ElementNode {
		tag := strings.ToLower(n.Data)
		if isSkippedElement(tag) {
			return
		}
		if tag == "a" || tag == "area" {
			if link, ok := resolveLink(n, base); ok && !seen[link] {
				seen[link] = true
				*links = append(*links, link)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectLinks(c, base, seen, links)
	}
}

func resolveLink(n *html.Node, base *url.URL) (string, bool) {
	href := strings.TrimSpace(attr(n, "href"))
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	if strings.Contains(strings.ToLower(attr(n, "rel")), "nofollow") {
		return "", false
	}

	target, err := base.Parse(href)
	if err != nil {
		return "", false
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return "", false
	}
	return normalizeURL(target), true
}

// normalizeURL returns the canonical form used to compare pages: lower-case
// host, default port dropped, empty path as "/", no fragment. u is
// modified in place.
func normalizeURL(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	u.Host = host
	if u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// baseHref returns the href of the first <base> element, if any.
func baseHref(n *html.Node) string {
	if n.Type == html.ElementNode && strings.ToLower(n.Data) == "base" {
		return attr(n, "href")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href := baseHref(c); href != "" {
			return href
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// isSkippedElement reports elements whose links are never followed.
func isSkippedElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template", "svg", "iframe":
		return true
	}
	return false
}
