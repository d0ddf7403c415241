// Package sites holds the ordered table of supported shopping sites and the
// transforms that add or remove their official-seller filter.
package sites

import (
	"regexp"

	"github.com/samber/lo"

	"github.com/soldbyofficial/backend/internal/domain"
)

// Registry is an ordered list of sites. The first matching entry wins, so
// overlapping patterns must be ordered most specific first.
type Registry []domain.Site

// FindMatch returns the first site whose pattern matches rawURL.
func (r Registry) FindMatch(rawURL string) (domain.Site, bool) {
	return lo.Find(r, func(s domain.Site) bool {
		return s.Matches(rawURL)
	})
}

// Lookup returns the site registered under id.
func (r Registry) Lookup(id string) (domain.Site, bool) {
	return lo.Find(r, func(s domain.Site) bool {
		return s.ID == id
	})
}

// IDs returns site ids in registry order.
func (r Registry) IDs() []string {
	return lo.Map(r, func(s domain.Site, _ int) string {
		return s.ID
	})
}

const (
	amazonKey    = "rh"
	neweggKey    = "N"
	neweggValue  = "8000"
	targetKey    = "facetedValue"
	targetValue  = "dq4mn"
	walmartKey   = "facet"
	walmartValue = "retailer_type:Walmart"
)

func amazon(domainName, sellerID string) domain.Site {
	return domain.Site{
		ID:        "Amazon." + domainName,
		Name:      "Amazon." + domainName,
		Pattern:   regexp.MustCompile(`https://www\.amazon\.` + regexp.QuoteMeta(domainName) + `/s\?.*`),
		Param:     domain.FilterParam{Key: amazonKey, Value: "p_6:" + sellerID},
		Policy:    domain.MergeDelimited,
		Delimiter: ",",
	}
}

func newegg(id, pattern string) domain.Site {
	return domain.Site{
		ID:        id,
		Name:      id,
		Pattern:   regexp.MustCompile(pattern),
		Param:     domain.FilterParam{Key: neweggKey, Value: neweggValue},
		Policy:    domain.MergeDelimited,
		Delimiter: " ",
	}
}

func replace(id, pattern, key, value string) domain.Site {
	return domain.Site{
		ID:      id,
		Name:    id,
		Pattern: regexp.MustCompile(pattern),
		Param:   domain.FilterParam{Key: key, Value: value},
		Policy:  domain.MergeReplace,
	}
}

var builtin = Registry{
	amazon("ca", "A3DWYIK6Y9EEQB"),
	amazon("com", "ATVPDKIKX0DER"),
	amazon("co.jp", "AN1VRQENFRJN5"),
	amazon("co.uk", "A3P5ROKL5A1OLE"),
	amazon("de", "A3JWKAKR8XB7XF"),
	amazon("es", "A1AT7YVPFBWXBL"),
	amazon("fr", "A1X6FK5RDHNB96"),
	amazon("it", "A11IL2PNWYJU7H"),
	newegg("Newegg.ca", `https://www\.newegg\.ca/p/pl\?.*`),
	newegg("Newegg.com", `https://www\.newegg\.com/p/pl\?.*`),
	newegg("Newegg.com-Global", `https://www\.newegg\.com/global/.+/p/pl\?.*`),
	replace("Target.com", `https://www\.target\.com/s\?.*`, targetKey, targetValue),
	replace("Walmart.ca", `https://www\.walmart\.ca/search\?.*`, walmartKey, walmartValue),
	replace("Walmart.com", `https://www\.walmart\.com/search\?.*`, walmartKey, walmartValue),
}

// Builtin returns a copy of the built-in registry.
func Builtin() Registry {
	out := make(Registry, len(builtin))
	copy(out, builtin)
	return out
}
