package common

import (
	"fmt"
	"net/url"
	"strings"
)

// CanonicalURL resolves href against baseURL and normalizes the result into
// the canonical form used as the article dedup key: absolute, lowercased
// scheme and host, no fragment, no trailing slash on the path.
func CanonicalURL(href, baseURL string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("empty href")
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}

	resolved := ref
	if !ref.IsAbs() {
		base, err := url.Parse(baseURL)
		if err != nil || !base.IsAbs() {
			return "", fmt.Errorf("cannot resolve relative href %q: invalid base %q", href, baseURL)
		}
		resolved = base.ResolveReference(ref)
	}

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q in %q", resolved.Scheme, href)
	}

	resolved.Scheme = strings.ToLower(resolved.Scheme)
	resolved.Host = strings.ToLower(resolved.Host)
	resolved.Fragment = ""
	// A bare root path trims to empty so https://e.com and https://e.com/
	// produce the same dedup key.
	resolved.Path = strings.TrimSuffix(resolved.Path, "/")

	return resolved.String(), nil
}

// ExtractDomain returns the hostname of rawURL without a www. prefix, or ""
// when the URL does not parse.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
