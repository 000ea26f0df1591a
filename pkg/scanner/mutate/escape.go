package mutate

import "strings"

const upperHex = "0123456789ABCDEF"

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// EscapeForm encodes s as an application/x-www-form-urlencoded value:
// alphanumerics and *-._ are kept, space becomes '+'.
func EscapeForm(s string) string {
	return escape(s, func(c byte) bool {
		return isAlnum(c) || c == '*' || c == '-' || c == '.' || c == '_'
	}, true)
}

// EscapeComponent percent-encodes s keeping alphanumerics and -_.!~*'().
func EscapeComponent(s string) string {
	return escape(s, func(c byte) bool {
		return isAlnum(c) || strings.IndexByte("-_.!~*'()", c) >= 0
	}, false)
}

func escape(s string, keep func(byte) bool, spaceAsPlus bool) string {
	var sb strings.Builder
	sb.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case keep(c):
			sb.WriteByte(c)
		case c == ' ' && spaceAsPlus:
			sb.WriteByte('+')
		default:
			sb.WriteByte('%')
			sb.WriteByte(upperHex[c>>4])
			sb.WriteByte(upperHex[c&15])
		}
	}
	return sb.String()
}
