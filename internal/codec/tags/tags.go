// Package tags holds the shared primitives for the string-field codecs:
// splitting a field into tokens, separating namespace-owned KEY=VALUE tokens
// from free text, value coercion and percent-encoding.
//
// Nothing in this package returns an error. Malformed input degrades to nil
// or to the raw value so historical data always stays readable.
package tags

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ISOTime is the layout written for timestamps (UTC, millisecond precision).
const ISOTime = "2006-01-02T15:04:05.000Z07:00"

// Token is a namespace-owned token: PREFIX + KEY=VALUE.
type Token struct {
	Raw   string
	Key   string
	Value string
}

// Split turns a newline-delimited field into lines. CRLF is tolerated.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// Join is the inverse of Split.
func Join(lines []string) string { return strings.Join(lines, "\n") }

// ParseToken reports whether raw belongs to the namespace prefix and, if so,
// returns its key and (still encoded) value. A prefixed token with an empty
// key is not owned.
func ParseToken(raw, prefix string) (Token, bool) {
	if prefix == "" || !strings.HasPrefix(raw, prefix) {
		return Token{}, false
	}
	body := raw[len(prefix):]
	key, value, _ := strings.Cut(body, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return Token{}, false
	}
	return Token{Raw: raw, Key: strings.ToUpper(key), Value: value}, true
}

// Partition separates tokens owned by prefix from everything else. Both
// results keep the original relative order.
func Partition(tokens []string, prefix string) (owned []Token, rest []string) {
	for _, t := range tokens {
		if tok, ok := ParseToken(t, prefix); ok {
			owned = append(owned, tok)
			continue
		}
		rest = append(rest, t)
	}
	return owned, rest
}

// Rebuild appends owned tokens after the untouched ones. The result is a
// fresh slice; inputs are never modified.
func Rebuild(rest []string, owned []string) []string {
	out := make([]string, 0, len(rest)+len(owned))
	out = append(out, rest...)
	return append(out, owned...)
}

// Format renders PREFIX + KEY=VALUE.
func Format(prefix, key, value string) string { return prefix + key + "=" + value }

// ParseBool accepts true/1/yes/y/on and false/0/no/n/off (case-insensitive).
// Anything else is nil; callers pick the fallback.
func ParseBool(s string) *bool {
	var b bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on":
		b = true
	case "false", "0", "no", "n", "off":
		b = false
	default:
		return nil
	}
	return &b
}

// BoolOr is ParseBool with a fallback.
func BoolOr(s string, fallback bool) bool {
	if b := ParseBool(s); b != nil {
		return *b
	}
	return fallback
}

// ParseNumber parses a float and rejects NaN and infinities.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// NumberOr is ParseNumber with a fallback.
func NumberOr(s string, fallback float64) float64 {
	if f := ParseNumber(s); f != nil {
		return *f
	}
	return fallback
}

// EncodeText percent-encodes free text so it survives inside a single token.
// The output decodes the same way encodeURIComponent output does.
func EncodeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// DecodeText reverses EncodeText. On a bad escape sequence the raw input is
// returned unchanged.
func DecodeText(s string) string {
	out, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return out
}

// ParseTime accepts any RFC 3339 timestamp. Bad input is nil.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

// FormatTime writes t in the ISOTime layout.
func FormatTime(t time.Time) string { return t.UTC().Format(ISOTime) }
