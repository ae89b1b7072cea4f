package tips

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decoderFor returns a transformer converting bytes in charset to UTF-8.
// For legacy charsets a byte order mark at the start of the input wins over the charset.
func decoderFor(charset string) (transform.Transformer, error) {
	charset = normalizeCharsetName(charset)

	if charset == "" || charset == "utf-8" {
		return utf8Passthrough(), nil
	}

	// Get encoding from htmlindex (supports many more charsets than Go's standard library)
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
	if enc == nil {
		return utf8Passthrough(), nil
	}
	return unicode.BOMOverride(enc.NewDecoder()), nil
}

// utf8Passthrough rejects invalid UTF-8 and drops a leading UTF-8 byte order mark.
// Validation runs first so BOMOverride never gets to repair broken bytes.
func utf8Passthrough() transform.Transformer {
	return transform.Chain(encoding.UTF8Validator, unicode.BOMOverride(transform.Nop))
}

// decodeToUTF8 converts data from charset to UTF-8
func decodeToUTF8(data []byte, charset string) ([]byte, error) {
	decoder, err := decoderFor(charset)
	if err != nil {
		return nil, err
	}
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode from %s: %w", charset, err)
	}
	return result, nil
}

// normalizeCharsetName normalizes charset names to match htmlindex expectations
func normalizeCharsetName(charset string) string {
	normalized := strings.ToLower(strings.TrimSpace(charset))

	switch normalized {
	case "iso-8859-15", "iso8859-15", "iso_8859-15", "latin-9", "latin9":
		return "iso-8859-15"
	case "iso-8859-1", "iso8859-1", "iso_8859-1", "latin-1", "latin1":
		return "iso-8859-1"
	case "iso-8859-2", "iso8859-2", "iso_8859-2", "latin-2", "latin2":
		return "iso-8859-2"
	case "windows-1252", "cp1252", "win1252":
		return "windows-1252"
	case "windows-1251", "cp1251", "win1251":
		return "windows-1251"
	case "windows-1250", "cp1250", "win1250":
		return "windows-1250"
	case "utf-8", "utf8":
		return "utf-8"
	case "us-ascii", "ascii":
		return "windows-1252" // superset of ASCII
	default:
		return normalized
	}
}
