package obo

import (
	"slices"
	"strings"
)

// Ontology is the parsed term store. Terms keep file order; the id index
// points at the last stanza declaring an id when an id is repeated.
type Ontology struct {
	terms          []*Term
	index          map[string]*Term
	duplicates     []string
	dataVersion    string
	hasDataVersion bool
}

func newOntology(terms []*Term) *Ontology {
	o := &Ontology{
		terms: terms,
		index: make(map[string]*Term, len(terms)),
	}
	for _, t := range terms {
		if _, exists := o.index[t.ID]; exists && !slices.Contains(o.duplicates, t.ID) {
			o.duplicates = append(o.duplicates, t.ID)
		}
		o.index[t.ID] = t
	}
	return o
}

func (o *Ontology) Terms() []*Term {
	return slices.Clone(o.terms)
}

func (o *Ontology) Len() int {
	return len(o.terms)
}

func (o *Ontology) ByID(id string) (*Term, bool) {
	t, ok := o.index[id]
	return t, ok
}

// Search matches query case-insensitively against term names and synonym
// texts. An empty query returns every term.
func (o *Ontology) Search(query string) []*Term {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return o.Terms()
	}
	var out []*Term
	for _, t := range o.terms {
		if matches(t, q) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t *Term, q string) bool {
	if strings.Contains(strings.ToLower(t.Name), q) {
		return true
	}
	for _, s := range t.Synonyms {
		if strings.Contains(strings.ToLower(s.Text), q) {
			return true
		}
	}
	return false
}

func (o *Ontology) DataVersion() (string, bool) {
	return o.dataVersion, o.hasDataVersion
}

// Duplicates lists ids declared by more than one emitted stanza.
func (o *Ontology) Duplicates() []string {
	return slices.Clone(o.duplicates)
}

func (o *Ontology) Parents(t *Term) []*Term {
	return o.resolve(t.Parents)
}

func (o *Ontology) Children(t *Term) []*Term {
	return o.resolve(t.Children)
}

func (o *Ontology) Roots() []*Term {
	var out []*Term
	for _, t := range o.terms {
		if len(t.Parents) == 0 {
			out = append(out, t)
		}
	}
	return out
}

func (o *Ontology) resolve(ids []string) []*Term {
	out := make([]*Term, 0, len(ids))
	for _, id := range ids {
		if t, ok := o.index[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
