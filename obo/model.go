package obo

import (
	"math"
	"strconv"
	"strings"
)

type SynonymScope string

const (
	ScopeExact   SynonymScope = "EXACT"
	ScopeBroad   SynonymScope = "BROAD"
	ScopeNarrow  SynonymScope = "NARROW"
	ScopeRelated SynonymScope = "RELATED"
)

func (s SynonymScope) valid() bool {
	switch s {
	case ScopeExact, ScopeBroad, ScopeNarrow, ScopeRelated:
		return true
	}
	return false
}

type Synonym struct {
	Text  string
	Scope SynonymScope
	Type  string
	Xrefs []string
}

type Xref struct {
	Database string
	Value    string
}

// Term is one emitted [Term] block. Parents and Children hold term ids and
// are only populated by the linker.
type Term struct {
	ID              string
	Name            string
	Definition      string
	DefinitionXrefs []string
	Synonyms        []Synonym
	Xrefs           []Xref
	IsObsolete      bool
	Comment         string
	Subset          []string
	Parents         []string
	Children        []string
}

// Xref returns the first cross-reference whose database matches, ignoring case.
func (t *Term) Xref(database string) (Xref, bool) {
	for _, x := range t.Xrefs {
		if strings.EqualFold(x.Database, database) {
			return x, true
		}
	}
	return Xref{}, false
}

func (t *Term) NumericXref(database string) (float64, bool) {
	x, ok := t.Xref(database)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(x.Value, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (t *Term) IsLeaf() bool {
	return len(t.Children) == 0
}
