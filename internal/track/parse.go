package track

import (
	"fmt"
	"net/url"
	"strings"
)

// InvalidURLError reports a tab event whose URL could not be broken into
// tree segments.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %q: %s", e.URL, e.Reason)
}

// parseURLParts splits a URL into the segment path used for tree lookup:
// the host first, then each path component longer than one character. The
// length filter drops the empty segment left by a trailing slash along with
// single-character components.
func parseURLParts(rawURL string) ([]string, error) {
	if rawURL == "" {
		return nil, &InvalidURLError{URL: rawURL, Reason: "empty URL"}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &InvalidURLError{URL: rawURL, Reason: err.Error()}
	}
	// Relative references carry no host and no stable segment path.
	if u.Scheme == "" {
		return nil, &InvalidURLError{URL: rawURL, Reason: "relative URL without a base"}
	}

	var parts []string
	if host := u.Hostname(); host != "" {
		parts = append(parts, host)
	}
	for _, segment := range strings.Split(strings.TrimPrefix(u.Path, "/"), "/") {
		if len(segment) > 1 {
			parts = append(parts, segment)
		}
	}

	if len(parts) == 0 {
		return nil, &InvalidURLError{URL: rawURL, Reason: "no usable segments"}
	}
	return parts, nil
}
