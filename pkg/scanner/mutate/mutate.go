// Package mutate derives the concrete test URL for a (target, payload) pair.
package mutate

import (
	"net/url"
	"strings"
)

// ParamName is the query parameter added when a target has no query.
const ParamName = "payload"

type pair struct {
	key   string
	value string
}

// Mutate injects payload into target. The first query parameter (by key
// order) is overwritten; a target without a query, or whose first key is
// empty, gets ParamName appended. The host is lowercased. Targets that are
// not absolute URLs fall back to raw concatenation.
// The result depends only on its inputs.
func Mutate(target, payload string) string {
	u, ok := parseAbsolute(target)
	if !ok {
		if raw, ok := splitRaw(target); ok {
			return raw.base + "?" + encodeQuery(inject(parseQuery(raw.query), payload)) + raw.fragment
		}
		return target + "?" + ParamName + "=" + EscapeComponent(payload)
	}

	u.RawQuery = encodeQuery(inject(parseQuery(u.RawQuery), payload))
	u.ForceQuery = false
	u.Host = strings.ToLower(u.Host)
	if u.Opaque == "" && u.Path == "" && u.Host != "" {
		u.Path = "/"
	}
	return u.String()
}

// inject overwrites the first parameter, or appends ParamName when there is
// no parameter or the first one has an empty name.
func inject(pairs []pair, payload string) []pair {
	if len(pairs) == 0 || pairs[0].key == "" {
		return append(pairs, pair{key: ParamName, value: payload})
	}
	return overwriteFirst(pairs, payload)
}

func parseAbsolute(target string) (*url.URL, bool) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, false
	}
	if u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return nil, false
	}
	return u, true
}

// rawURL is a hierarchical URL that url.Parse rejects because of its path,
// such as a stray '%' that is not an escape. The path is kept verbatim.
type rawURL struct {
	base     string // scheme://authority/path
	query    string
	fragment string // including the leading '#'
}

func splitRaw(target string) (rawURL, bool) {
	scheme, rest, ok := strings.Cut(target, "://")
	if !ok || !validScheme(scheme) {
		return rawURL{}, false
	}

	var r rawURL
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest, r.fragment = rest[:i], rest[i:]
	}
	rest, r.query, _ = strings.Cut(rest, "?")

	authority, path := rest, "/"
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		authority, path = rest[:i], rest[i:]
	}
	if authority == "" {
		return rawURL{}, false
	}
	if _, err := url.Parse(scheme + "://" + authority); err != nil {
		return rawURL{}, false
	}

	// Lowercase the host but not the userinfo
	userinfo := ""
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		userinfo, authority = authority[:i+1], authority[i+1:]
	}
	r.base = strings.ToLower(scheme) + "://" + userinfo + strings.ToLower(authority) + path
	return r, true
}

func validScheme(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// overwriteFirst sets the first key's value and drops its later duplicates.
func overwriteFirst(pairs []pair, payload string) []pair {
	first := pairs[0].key
	out := make([]pair, 0, len(pairs))
	replaced := false
	for _, p := range pairs {
		if p.key == first {
			if replaced {
				continue
			}
			p.value = payload
			replaced = true
		}
		out = append(out, p)
	}
	return out
}

func parseQuery(raw string) []pair {
	var pairs []pair
	for _, segment := range strings.Split(raw, "&") {
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		pairs = append(pairs, pair{key: unescapeLenient(key), value: unescapeLenient(value)})
	}
	return pairs
}

func unescapeLenient(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return strings.ReplaceAll(s, "+", " ")
}

func encodeQuery(pairs []pair) string {
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(EscapeForm(p.key))
		sb.WriteByte('=')
		sb.WriteString(EscapeForm(p.value))
	}
	return sb.String()
}
