// Package urlparam edits URL query parameters the way a browser's
// URLSearchParams does: pair order is kept, the first occurrence of a key is
// replaced in place, and the query is reserialized as
// application/x-www-form-urlencoded.
package urlparam

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"

	"github.com/soldbyofficial/backend/internal/domain"
)

// specialSchemes must carry a host to be a valid absolute URL. The value is
// the scheme's default port, which is dropped on serialization.
var specialSchemes = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

// Add sets key to value, overwriting any previous value.
func Add(rawURL, key, value string) (string, error) {
	u, params, err := parse(rawURL)
	if err != nil {
		return "", err
	}

	return serialize(u, params.set(key, value)), nil
}

// Remove deletes every occurrence of key. Removing an absent key still
// reserializes the query.
func Remove(rawURL, key string) (string, error) {
	u, params, err := parse(rawURL)
	if err != nil {
		return "", err
	}

	return serialize(u, params.remove(key)), nil
}

// AddDelimited treats an existing value of key as a delim-separated list and
// appends value to it. When value is already one of the segments the input
// string is returned untouched, formatting included.
func AddDelimited(rawURL, key, value, delim string) (string, error) {
	_, params, err := parse(rawURL)
	if err != nil {
		return "", err
	}

	existing, ok := params.get(key)
	if !ok {
		return Add(rawURL, key, value)
	}

	if lo.Contains(strings.Split(existing, delim), value) {
		return rawURL, nil
	}

	return Add(rawURL, key, existing+delim+value)
}

// Get returns the decoded value of the first occurrence of key.
func Get(rawURL, key string) (string, bool, error) {
	_, params, err := parse(rawURL)
	if err != nil {
		return "", false, err
	}

	value, ok := params.get(key)
	return value, ok, nil
}

// Equal compares two URLs after normalizing their query strings. URLs that
// fail to parse are never equal.
func Equal(url1, url2 string) bool {
	u1, p1, err := parse(url1)
	if err != nil {
		return false
	}
	u2, p2, err := parse(url2)
	if err != nil {
		return false
	}

	return serialize(u1, p1) == serialize(u2, p2)
}

func parse(rawURL string) (*url.URL, pairs, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q: %v", domain.ErrInvalidURL, rawURL, err)
	}

	_, special := specialSchemes[strings.ToLower(u.Scheme)]
	if !u.IsAbs() || (special && u.Host == "") {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidURL, rawURL)
	}

	return u, parseQuery(u.RawQuery), nil
}

// serialize writes params back into u. An empty pair list drops the "?".
// Special schemes get a lowercase host without the default port and a root
// path when the path is empty.
func serialize(u *url.URL, params pairs) string {
	out := *u
	out.RawQuery = params.encode()
	out.ForceQuery = false

	if defaultPort, special := specialSchemes[strings.ToLower(out.Scheme)]; special {
		out.Host = strings.TrimSuffix(strings.ToLower(out.Host), ":"+defaultPort)
		if out.Path == "" && out.Opaque == "" {
			out.Path = "/"
		}
	}

	return out.String()
}
