package obo

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	prefixID           = "id:"
	prefixName         = "name:"
	prefixDef          = "def:"
	prefixSynonym      = "synonym:"
	prefixXref         = "xref:"
	prefixSubset       = "subset:"
	prefixComment      = "comment:"
	prefixIsObsolete   = "is_obsolete:"
	prefixIsA          = "is_a:"
	prefixRelationship = "relationship:"
	prefixDataVersion  = "data-version:"

	annotationSeparator = " ! "
)

var (
	defRe     = regexp.MustCompile(`^def:\s+"(.*?)"\s*(?:\[(.*)\])?\s*$`)
	synonymRe = regexp.MustCompile(`^synonym:\s+"(.*?)"\s+(\S+)(?:\s+(\S+))?\s*(?:\[(.*)\])?\s*$`)
	bareSynRe = regexp.MustCompile(`^synonym:\s+"(.*?)"\s*$`)
)

func fieldValue(line, prefix string) string {
	return strings.TrimSpace(line[len(prefix):])
}

func extractDefinition(line string) (string, []string, error) {
	m := defRe.FindStringSubmatch(line)
	if m == nil || m[1] == "" {
		return "", nil, ErrInvalidDefinition
	}
	return unescapeQuotes(m[1]), splitBracketList(m[2]), nil
}

// extractSynonym returns ok == false for lines that do not follow the
// synonym layout; those are skipped. A well laid out line with an unknown
// or missing scope is an error. The type is the first token after the scope,
// even when that token is a bracket list.
func extractSynonym(line string) (Synonym, bool, error) {
	m := synonymRe.FindStringSubmatch(line)
	if m == nil {
		if bareSynRe.MatchString(line) {
			return Synonym{}, false, errors.Wrap(ErrInvalidSynonymScope, "missing")
		}
		return Synonym{}, false, nil
	}
	scope := SynonymScope(m[2])
	if !scope.valid() {
		return Synonym{}, false, errors.Wrapf(ErrInvalidSynonymScope, "%q", m[2])
	}
	if m[1] == "" || m[3] == "" {
		return Synonym{}, false, nil
	}
	return Synonym{
		Text:  unescapeQuotes(m[1]),
		Scope: scope,
		Type:  m[3],
		Xrefs: splitBracketList(m[4]),
	}, true, nil
}

func extractXref(line string) (Xref, bool) {
	rest := fieldValue(line, prefixXref)
	i := strings.Index(rest, ":")
	if i <= 0 {
		return Xref{}, false
	}
	return Xref{
		Database: strings.TrimSpace(rest[:i]),
		Value:    stripQuotes(strings.TrimSpace(rest[i+1:])),
	}, true
}

func extractIsObsolete(line string) bool {
	switch strings.ToLower(fieldValue(line, prefixIsObsolete)) {
	case "true", "t", "1":
		return true
	}
	return false
}

// extractParentID returns the parent id of an "is_a: <id> ! <name>" line.
func extractParentID(line string) (string, error) {
	rest := fieldValue(line, prefixIsA)
	before, _, found := strings.Cut(rest, "!")
	if !found {
		return "", ErrMissingIsASeparator
	}
	tokens := strings.Fields(before)
	if len(tokens) == 0 {
		return "", nil
	}
	return tokens[0], nil
}

func stripAnnotation(s string) string {
	if i := strings.Index(s, annotationSeparator); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func stripQuotes(s string) string {
	s = stripAnnotation(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func unescapeQuotes(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}

func splitBracketList(s string) []string {
	var out []string
	for _, entry := range strings.Split(s, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// ParseDataVersion returns the value of the first header-level
// "data-version:" line, if any. It does not depend on block parsing.
func ParseDataVersion(text string) (string, bool) {
	for l := range classify(text) {
		if !strings.HasPrefix(l.text, prefixDataVersion) {
			continue
		}
		if v := stripAnnotation(fieldValue(l.text, prefixDataVersion)); v != "" {
			return v, true
		}
		return "", false
	}
	return "", false
}
