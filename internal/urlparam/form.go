package urlparam

import (
	"strings"
)

const upperhex = "0123456789ABCDEF"

type pair struct {
	key   string
	value string
}

type pairs []pair

// parseQuery splits a raw query into decoded pairs. Malformed percent
// sequences are kept literally instead of failing.
func parseQuery(raw string) pairs {
	var out pairs
	for _, seq := range strings.Split(raw, "&") {
		if seq == "" {
			continue
		}
		key, value, _ := strings.Cut(seq, "=")
		out = append(out, pair{key: decode(key), value: decode(value)})
	}
	return out
}

func (p pairs) get(key string) (string, bool) {
	for _, kv := range p {
		if kv.key == key {
			return kv.value, true
		}
	}
	return "", false
}

// set replaces the first occurrence of key and drops the rest, or appends
// a new pair when key is absent.
func (p pairs) set(key, value string) pairs {
	out := make(pairs, 0, len(p)+1)
	found := false
	for _, kv := range p {
		if kv.key != key {
			out = append(out, kv)
			continue
		}
		if !found {
			out = append(out, pair{key: key, value: value})
			found = true
		}
	}
	if !found {
		out = append(out, pair{key: key, value: value})
	}
	return out
}

func (p pairs) remove(key string) pairs {
	out := make(pairs, 0, len(p))
	for _, kv := range p {
		if kv.key != key {
			out = append(out, kv)
		}
	}
	return out
}

func (p pairs) encode() string {
	var b strings.Builder
	for i, kv := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(encode(kv.key))
		b.WriteByte('=')
		b.WriteString(encode(kv.value))
	}
	return b.String()
}

func decode(s string) string {
	if !strings.ContainsAny(s, "+%") {
		return s
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+':
			buf = append(buf, ' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			buf = append(buf, c)
		}
	}
	return strings.ToValidUTF8(string(buf), "�")
}

// encode follows the form-urlencoded byte serializer: alphanumerics and
// "*-._" pass through, space becomes "+", everything else is percent-encoded.
func encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case isUnreserved(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '*', c == '-', c == '.', c == '_':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
