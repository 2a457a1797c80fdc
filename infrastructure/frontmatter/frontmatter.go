package frontmatter

import (
	"strconv"
	"strings"
)

// marker delimits the attribute block; it must sit on its own line at the
// very top of the note and again at the block's end.
const marker = "---"

// keyRange is a parsed index entry: the half-open range of block lines a key
// occupies. Multi-line list values extend the range past the key line.
type keyRange struct {
	key   string
	start int
	end   int
}

// Read extracts the typed attribute record from a note's text. A missing
// block or missing keys yield zero fields; malformed scalar values are
// treated as absent.
func Read(text string) Record {
	lines, bodyStart, ok := splitBlock(text)
	if !ok {
		return Record{}
	}
	block := lines[1:bodyStart]

	var rec Record
	for _, kr := range scanKeys(block) {
		head := block[kr.start]
		_, value, _ := strings.Cut(trimEOL(head), ":")
		value = strings.TrimSpace(value)

		switch kr.key {
		case KeyNodeX:
			rec.NodeX = parseNumber(value)
		case KeyNodeY:
			rec.NodeY = parseNumber(value)
		case KeyNodeSize:
			rec.NodeSize = parseNumber(value)
		case KeyEdges:
			rec.Edges = parseEdges(value, block[kr.start+1:kr.end])
		}
	}
	return rec
}

// Apply patches the attribute block and returns the updated text. Keys
// already present are replaced in place, missing keys are appended at the
// end of the block, and when no block exists one is synthesized and
// prepended. Apply is idempotent and never alters bytes outside the block.
func Apply(text string, patch Patch) string {
	if patch.IsEmpty() {
		return text
	}

	lines, bodyStart, ok := splitBlock(text)
	if !ok {
		return synthesize(patch) + text
	}

	// Full slice expression: appends must not clobber the closing marker.
	block := lines[1:bodyStart:bodyStart]
	for _, key := range []string{KeyNodeX, KeyNodeY, KeyNodeSize, KeyEdges} {
		repl, touched := renderKey(key, patch)
		if !touched {
			continue
		}
		block = spliceKey(block, key, repl)
	}

	out := make([]string, 0, 1+len(block)+len(lines)-bodyStart)
	out = append(out, lines[0])
	out = append(out, block...)
	out = append(out, lines[bodyStart:]...)
	return strings.Join(out, "\n")
}

// splitBlock splits text into lines and locates the closing marker. The
// returned index points at the closing marker line; ok is false when the
// text does not start with an attribute block.
func splitBlock(text string) (lines []string, closing int, ok bool) {
	lines = strings.Split(text, "\n")
	if len(lines) < 2 || trimEOL(lines[0]) != marker {
		return nil, 0, false
	}
	for i := 1; i < len(lines); i++ {
		if trimEOL(lines[i]) == marker {
			return lines, i, true
		}
	}
	return nil, 0, false
}

// scanKeys indexes the block's top-level keys. Any line that does not start
// a new key belongs to the range of the key above it (multi-line lists).
func scanKeys(block []string) []keyRange {
	var ranges []keyRange
	for i, raw := range block {
		line := trimEOL(raw)
		key, ok := keyOf(line)
		if !ok {
			continue
		}
		if n := len(ranges); n > 0 {
			ranges[n-1].end = i
		}
		ranges = append(ranges, keyRange{key: key, start: i, end: len(block)})
	}
	return ranges
}

// keyOf extracts a top-level "key:" prefix from a line, if present
func keyOf(line string) (string, bool) {
	if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '-' {
		return "", false
	}
	key, _, found := strings.Cut(line, ":")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", false
	}
	return key, true
}

// spliceKey replaces the key's line range with the replacement lines,
// appends when the key is absent, and deletes the range when the
// replacement is nil.
func spliceKey(block []string, key string, repl []string) []string {
	for _, kr := range scanKeys(block) {
		if kr.key != key {
			continue
		}
		out := make([]string, 0, len(block)-(kr.end-kr.start)+len(repl))
		out = append(out, block[:kr.start]...)
		out = append(out, repl...)
		out = append(out, block[kr.end:]...)
		return out
	}
	return append(block, repl...)
}

// renderKey produces the replacement lines for a patched key. touched is
// false when the patch does not mention the key; a nil result with
// touched=true removes the key.
func renderKey(key string, patch Patch) (lines []string, touched bool) {
	switch key {
	case KeyNodeX:
		if patch.NodeX == nil {
			return nil, false
		}
		return []string{KeyNodeX + ": " + strconv.Itoa(*patch.NodeX)}, true
	case KeyNodeY:
		if patch.NodeY == nil {
			return nil, false
		}
		return []string{KeyNodeY + ": " + strconv.Itoa(*patch.NodeY)}, true
	case KeyNodeSize:
		if patch.NodeSize == nil {
			return nil, false
		}
		return []string{KeyNodeSize + ": " + formatNumber(*patch.NodeSize)}, true
	case KeyEdges:
		if patch.Edges == nil {
			return nil, false
		}
		if len(*patch.Edges) == 0 {
			return nil, true
		}
		quoted := make([]string, len(*patch.Edges))
		for i, e := range *patch.Edges {
			quoted[i] = strconv.Quote(e)
		}
		return []string{KeyEdges + ": [" + strings.Join(quoted, ", ") + "]"}, true
	}
	return nil, false
}

// synthesize builds a fresh attribute block holding only the patched keys
func synthesize(patch Patch) string {
	var block []string
	for _, key := range []string{KeyNodeX, KeyNodeY, KeyNodeSize, KeyEdges} {
		repl, touched := renderKey(key, patch)
		if touched {
			block = append(block, repl...)
		}
	}
	if len(block) == 0 {
		return ""
	}
	return marker + "\n" + strings.Join(block, "\n") + "\n" + marker + "\n"
}

// parseNumber parses a scalar value, returning nil for anything non-numeric
func parseNumber(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseEdges accepts both list forms: the inline bracketed list on the key
// line, and the multi-line dash-prefixed form on the following lines.
func parseEdges(inline string, rest []string) []string {
	var edges []string
	if strings.HasPrefix(inline, "[") {
		inner := strings.TrimSuffix(strings.TrimPrefix(inline, "["), "]")
		for _, part := range strings.Split(inner, ",") {
			if entry := unquote(strings.TrimSpace(part)); entry != "" {
				edges = append(edges, entry)
			}
		}
		return edges
	}
	for _, raw := range rest {
		line := strings.TrimSpace(trimEOL(raw))
		if !strings.HasPrefix(line, "-") {
			continue
		}
		entry := unquote(strings.TrimSpace(strings.TrimPrefix(line, "-")))
		if entry != "" {
			edges = append(edges, entry)
		}
	}
	return edges
}

// unquote strips one matched pair of single or double quotes
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// formatNumber renders a float without a trailing fractional zero
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimEOL drops a trailing carriage return so CRLF notes parse cleanly
func trimEOL(line string) string {
	return strings.TrimSuffix(line, "\r")
}
