package s3presign

import "strings"

const upperhex = "0123456789ABCDEF"

// uriEncode percent-encodes s the way SigV4 canonical requests require:
// every byte outside the RFC 3986 unreserved set (A-Z a-z 0-9 - _ . ~) is
// encoded as %XX with uppercase hex, spaces included. When keepSlash is
// true the path separator stays literal, which is what object keys need so
// that "my/image.png" signs as a path, not a single encoded segment.
//
// net/url is no substitute here: PathEscape leaves sub-delims like '&' and
// '=' alone and QueryEscape turns spaces into '+', both of which change the
// canonical request and break the signature.
func uriEncode(s string, keepSlash bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '_' || c == '.' || c == '~':
			b.WriteByte(c)
		case c == '/' && keepSlash:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xF])
		}
	}
	return b.String()
}
