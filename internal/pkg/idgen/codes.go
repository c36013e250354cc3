package idgen

import (
	"strings"
	"unicode"
)

// Abbreviator derives a code for a name that is not listed in a CodeTable.
type Abbreviator func(name string) string

// Prefix returns an Abbreviator that upper-cases the first n characters of the trimmed name.
func Prefix(n int) Abbreviator {
	return func(name string) string {
		return upperPrefix(strings.TrimSpace(name), n)
	}
}

// CompactPrefix returns an Abbreviator that removes all whitespace before taking the first n characters.
func CompactPrefix(n int) Abbreviator {
	return func(name string) string {
		compact := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, name)
		return upperPrefix(compact, n)
	}
}

func upperPrefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.ToUpper(string(runes))
}

// CodeTable maps category names to fixed abbreviations.
// It is built once at startup and never mutated, so it is safe for concurrent use.
type CodeTable struct {
	codes     map[string]string
	emptyCode string
	fallback  Abbreviator
}

// NewCodeTable builds a table from name -> code entries. Names match case-insensitively with
// surrounding and repeated inner whitespace ignored. emptyCode is returned for blank names and
// fallback is applied to names missing from the table.
func NewCodeTable(entries map[string]string, emptyCode string, fallback Abbreviator) CodeTable {
	codes := make(map[string]string, len(entries))
	for name, code := range entries {
		codes[normalizeName(name)] = strings.ToUpper(strings.TrimSpace(code))
	}
	return CodeTable{codes: codes, emptyCode: emptyCode, fallback: fallback}
}

// Resolve returns the code for name.
func (t CodeTable) Resolve(name string) string {
	key := normalizeName(name)
	if key == "" {
		return t.emptyCode
	}
	if code, ok := t.codes[key]; ok {
		return code
	}
	if t.fallback == nil {
		return t.emptyCode
	}
	return t.fallback(name)
}

// Known reports whether name has an explicit entry in the table.
func (t CodeTable) Known(name string) bool {
	_, ok := t.codes[normalizeName(name)]
	return ok
}

// Entries returns a copy of the normalized name -> code mapping.
func (t CodeTable) Entries() map[string]string {
	out := make(map[string]string, len(t.codes))
	for k, v := range t.codes {
		out[k] = v
	}
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
