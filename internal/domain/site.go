package domain

import "regexp"

// MergePolicy describes how a filter value is combined with an existing
// value under the same query key.
type MergePolicy int

const (
	// MergeReplace overwrites any existing value.
	MergeReplace MergePolicy = iota
	// MergeDelimited appends the value to a delimiter-separated list unless
	// it is already one of the segments.
	MergeDelimited
)

// String returns the policy name used in listings
func (p MergePolicy) String() string {
	switch p {
	case MergeReplace:
		return "replace"
	case MergeDelimited:
		return "delimited"
	default:
		return "unknown"
	}
}

// FilterParam is the query parameter that restricts results to the official seller
type FilterParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Site describes one supported shopping site. Sites are immutable once the
// registry is built.
type Site struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Pattern   *regexp.Regexp `json:"-"`
	Param     FilterParam    `json:"param"`
	Policy    MergePolicy    `json:"-"`
	Delimiter string         `json:"delimiter,omitempty"`
}

// Matches reports whether the site pattern matches somewhere in rawURL
func (s Site) Matches(rawURL string) bool {
	return s.Pattern != nil && s.Pattern.MatchString(rawURL)
}

// SiteStatus pairs a site with its current on/off preference
type SiteStatus struct {
	Site    Site `json:"site"`
	Enabled bool `json:"enabled"`
}
