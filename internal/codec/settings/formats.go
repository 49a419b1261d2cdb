package settings

import "strings"

// blockFormat is one recognized pair of sentinel markers around the JSON
// block. Only the first entry of blockFormats is ever written.
type blockFormat struct {
	name  string
	open  string
	close string
}

var blockFormats = []blockFormat{
	{name: "current", open: "[[HOTEL_SETTINGS_JSON]]", close: "[[/HOTEL_SETTINGS_JSON]]"},
	{name: "legacy-short", open: "[[SETTINGS_JSON]]", close: "[[/SETTINGS_JSON]]"},
	{name: "legacy-comment", open: "<!--HOTEL_SETTINGS_JSON-->", close: "<!--/HOTEL_SETTINGS_JSON-->"},
	{name: "legacy-dashes", open: "---HOTEL_SETTINGS---", close: "---END_HOTEL_SETTINGS---"},
}

var current = blockFormats[0]

// match pairs each close marker with the nearest open marker before it, so
// a stray open marker in free text never captures a later block. It returns
// the block body and the text with the whole block (markers included)
// spliced out.
func (f blockFormat) match(text string) (body, rest string, ok bool) {
	from := 0
	for {
		j := strings.Index(text[from:], f.close)
		if j < 0 {
			return "", text, false
		}
		closeAt := from + j
		i := strings.LastIndex(text[:closeAt], f.open)
		if i < 0 {
			// close marker with no opener is free text
			from = closeAt + len(f.close)
			continue
		}
		return text[i+len(f.open) : closeAt], text[:i] + text[closeAt+len(f.close):], true
	}
}

func (f blockFormat) wrap(body string) string {
	return f.open + "\n" + body + "\n" + f.close
}

// extractBlock scans formats in priority order; the first match supplies
// the body. Blocks of any other recognized format are superseded and
// removed from the returned base text as well.
func extractBlock(text string) (body string, base string, found bool) {
	base = text
	for _, f := range blockFormats {
		b, rest, ok := f.match(base)
		if !ok {
			continue
		}
		if !found {
			body, found = b, true
		}
		base = rest
		// a second block of the same format is also stripped
		for {
			_, again, ok := f.match(base)
			if !ok {
				break
			}
			base = again
		}
	}
	return body, strings.TrimSpace(base), found
}
