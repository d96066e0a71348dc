package glass

import (
	"net/url"
	"strings"

	"github.com/matzehuels/liquidglass/pkg/errors"
)

// DataURIPrefix starts every URI produced by [EncodeDataURI].
const DataURIPrefix = "data:image/svg+xml,"

const upperHex = "0123456789ABCDEF"

// EncodeDataURI percent-encodes svg and prefixes it with [DataURIPrefix].
//
// The escaping matches JavaScript's encodeURIComponent: ASCII letters,
// digits and - _ . ! ~ * ' ( ) are kept, every other byte becomes %XX with
// upper-case hex. The transform is lossless; no whitespace is stripped.
func EncodeDataURI(svg string) string {
	var b strings.Builder
	b.Grow(len(DataURIPrefix) + len(svg)*2)
	b.WriteString(DataURIPrefix)
	for i := 0; i < len(svg); i++ {
		c := svg[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

// DecodeDataURI reverses [EncodeDataURI].
// It fails with [errors.ErrCodeInvalidDataURI] when the prefix is missing or
// the payload holds a malformed escape.
func DecodeDataURI(uri string) (string, error) {
	payload, ok := strings.CutPrefix(uri, DataURIPrefix)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidDataURI, "missing %q prefix", DataURIPrefix)
	}
	svg, err := url.PathUnescape(payload)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidDataURI, err, "decode payload")
	}
	return svg, nil
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
