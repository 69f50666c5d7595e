package providers

import "strings"

const upperhex = "0123456789ABCDEF"

// EncodeURI percent-encodes s the way ECMAScript encodeURI does: letters, digits, the URI
// reserved characters ;,/?:@&=+$# and the marks -_.!~*'() are kept, every other byte of the
// UTF-8 encoding becomes %XX. Existing escapes are not preserved, so "%" becomes "%25".
func EncodeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepInURI(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}

	return b.String()
}

func keepInURI(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte(";,/?:@&=+$#-_.!~*'()", c) >= 0
}
