package model

import (
	"net/url"
	"regexp"
	"time"
)

// IsAbsoluteURI reports whether s parses as a full URI with a scheme, per
// RFC 3986. Used for dataschema.
func IsAbsoluteURI(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

// IsURIReference reports whether s is a URI-reference per RFC 3986 §4.1:
// either an absolute URI or a relative reference. Used for source.
func IsURIReference(s string) bool {
	if s == "" {
		return false
	}
	_, err := url.Parse(s)
	return err == nil
}

var rfc3339Pattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

// IsRFC3339Time reports whether s is a valid RFC 3339 timestamp, rejecting
// strings with an impossible calendar date (for example, February 30th)
// even though they match the lexical pattern.
func IsRFC3339Time(s string) bool {
	if !rfc3339Pattern.MatchString(s) {
		return false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return false
	}
	return t.Format("2006-01-02") == s[:10]
}

// mimeTypePattern restricts the discrete/composite type to the set RFC 2046
// defines, or an "x-" extension token, followed by "/subtype" and optional
// ";param=value" pairs.
var mimeTypePattern = regexp.MustCompile(`^(?:x-[a-zA-Z0-9.+-]+|text|image|audio|video|application|message|multipart)/[a-zA-Z0-9.+-]+(\s*;\s*[a-zA-Z0-9.-]+=[^;]+)*$`)

// IsMIMEType reports whether s is a syntactically valid "type/subtype"
// media type, optionally followed by parameters.
func IsMIMEType(s string) bool {
	return mimeTypePattern.MatchString(s)
}
