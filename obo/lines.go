package obo

import (
	"iter"
	"strings"
	"unicode"
)

const termHeader = "[Term]"

type lineKind int

const (
	lineBlank lineKind = iota
	lineTermHeader
	lineStanzaHeader
	lineField
)

type logicalLine struct {
	number int
	kind   lineKind
	text   string
}

// classify yields the logical lines of text with trailing whitespace
// (including any carriage return) removed. Leading whitespace is kept.
// The sequence can be ranged over more than once.
func classify(text string) iter.Seq[logicalLine] {
	return func(yield func(logicalLine) bool) {
		n := 0
		for raw := range strings.Lines(text) {
			n++
			l := logicalLine{number: n, text: strings.TrimRightFunc(raw, unicode.IsSpace)}
			switch {
			case l.text == "":
				l.kind = lineBlank
			case l.text == termHeader:
				l.kind = lineTermHeader
			case isStanzaHeader(l.text):
				l.kind = lineStanzaHeader
			default:
				l.kind = lineField
			}
			if !yield(l) {
				return
			}
		}
	}
}

// isStanzaHeader reports other stanza headers such as [Typedef] or
// [Instance]; their content is not parsed.
func isStanzaHeader(s string) bool {
	return len(s) > 2 && s[0] == '[' && s[len(s)-1] == ']' && !strings.ContainsAny(s[1:len(s)-1], "[] \t")
}
