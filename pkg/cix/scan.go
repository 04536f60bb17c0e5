package cix

import "strings"

// tokenKind classifies one line of CIX input.
type tokenKind int

const (
	tokOther tokenKind = iota
	tokBegin           // BEGIN <block>
	tokEnd             // END <block>
	tokName            // NAME=<value>
	tokParam           // PARAM,NAME=<key>,VALUE=<value>[,...]
	tokKeyValue        // <KEY>=<VALUE>
)

// token is one scanned line. The tokenizer produces a flat event stream;
// block structure is reassembled by the pass functions.
type token struct {
	kind  tokenKind
	block string // tokBegin/tokEnd
	name  string // tokName
	key   string // tokKeyValue / tokParam NAME
	value string // tokKeyValue / tokParam VALUE
	line  int    // 1-based source line
}

// scanLines tokenizes CIX text line by line. Unrecognized lines become
// tokOther tokens so passes can skip them without losing positions.
func scanLines(text string) []token {
	lines := strings.Split(text, "\n")
	toks := make([]token, 0, len(lines))
	for i, raw := range lines {
		s := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		t := token{kind: tokOther, line: i + 1}
		switch {
		case s == "":
			// keep as tokOther
		case strings.HasPrefix(s, "BEGIN "):
			t.kind = tokBegin
			t.block = strings.ToUpper(strings.TrimSpace(s[len("BEGIN "):]))
		case strings.HasPrefix(s, "END "):
			t.kind = tokEnd
			t.block = strings.ToUpper(strings.TrimSpace(s[len("END "):]))
		case strings.HasPrefix(s, "PARAM,"):
			if key, value, ok := parseParamLine(s); ok {
				t.kind = tokParam
				t.key = key
				t.value = value
			}
		case strings.HasPrefix(s, "NAME="):
			t.kind = tokName
			t.name = strings.ToUpper(unquote(s[len("NAME="):]))
		default:
			if k, v, ok := strings.Cut(s, "="); ok {
				t.kind = tokKeyValue
				t.key = strings.ToUpper(strings.TrimSpace(k))
				t.value = unquote(v)
			}
		}
		toks = append(toks, t)
	}
	return toks
}

// parseParamLine splits a "PARAM,NAME=<k>,VALUE=<v>[,...]" line into its
// parameter name and raw value. Fields after the leading PARAM tag are
// comma-delimited KEY=VALUE pairs; only NAME and VALUE are meaningful.
func parseParamLine(s string) (key, value string, ok bool) {
	fields := strings.Split(s, ",")[1:]
	var haveName, haveValue bool
	for _, f := range fields {
		k, v, found := strings.Cut(f, "=")
		if !found {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(k)) {
		case "NAME":
			key = strings.ToUpper(unquote(v))
			haveName = true
		case "VALUE":
			value = unquote(v)
			haveValue = true
		}
	}
	return key, value, haveName && haveValue
}

// unquote trims whitespace and a single layer of surrounding quotes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"') {
		s = s[1 : len(s)-1]
	}
	return s
}
