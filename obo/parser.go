// Package obo parses PSI-MOD flavoured OBO files into a linked term graph.
//
// Only [Term] stanzas are read. Header lines other than data-version and
// [Typedef] stanzas are ignored. A stanza becomes a Term when it has an id,
// a name and a definition; anything less is dropped without error. A
// recognised field that breaks its own grammar aborts the whole parse and no
// terms are returned.
package obo

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

type assemblerState int

const (
	outside assemblerState = iota
	inBlock
)

type edge struct {
	child  string
	parent string
}

// block buffers the fields of the [Term] stanza being read.
type block struct {
	id              string
	name            string
	definition      string
	definitionXrefs []string
	synonyms        []Synonym
	xrefs           []Xref
	isObsolete      bool
	comment         string
	subset          []string
	parentIDs       []string
}

func (b *block) complete() bool {
	return b.id != "" && b.name != "" && b.definition != ""
}

func (b *block) term() *Term {
	return &Term{
		ID:              b.id,
		Name:            b.name,
		Definition:      b.definition,
		DefinitionXrefs: b.definitionXrefs,
		Synonyms:        b.synonyms,
		Xrefs:           b.xrefs,
		IsObsolete:      b.isObsolete,
		Comment:         b.comment,
		Subset:          b.subset,
	}
}

type assembler struct {
	state   assemblerState
	current block
	terms   []*Term
	edges   []edge
}

func (a *assembler) start() {
	a.current = block{}
	a.state = inBlock
}

func (a *assembler) finish() {
	if a.state != inBlock {
		return
	}
	a.state = outside
	if !a.current.complete() {
		return
	}
	t := a.current.term()
	a.terms = append(a.terms, t)
	for _, p := range a.current.parentIDs {
		a.edges = append(a.edges, edge{child: t.ID, parent: p})
	}
}

func (a *assembler) feed(l logicalLine) error {
	switch l.kind {
	case lineTermHeader:
		a.finish()
		a.start()
		return nil
	case lineStanzaHeader:
		a.finish()
		return nil
	case lineBlank:
		return nil
	}
	if a.state != inBlock || strings.HasPrefix(l.text, "!") {
		return nil
	}
	if err := a.field(l.text); err != nil {
		return &ParseError{Line: l.number, Field: fieldName(l.text), Text: l.text, Err: err}
	}
	return nil
}

func (a *assembler) field(line string) error {
	b := &a.current
	switch {
	case strings.HasPrefix(line, prefixID):
		b.id = fieldValue(line, prefixID)
	case strings.HasPrefix(line, prefixName):
		b.name = fieldValue(line, prefixName)
	case strings.HasPrefix(line, prefixDef):
		text, refs, err := extractDefinition(line)
		if err != nil {
			return err
		}
		b.definition, b.definitionXrefs = text, refs
	case strings.HasPrefix(line, prefixSynonym):
		syn, ok, err := extractSynonym(line)
		if err != nil {
			return err
		}
		if ok {
			b.synonyms = append(b.synonyms, syn)
		}
	case strings.HasPrefix(line, prefixXref):
		if x, ok := extractXref(line); ok {
			b.xrefs = append(b.xrefs, x)
		}
	case strings.HasPrefix(line, prefixSubset):
		if v := fieldValue(line, prefixSubset); v != "" {
			b.subset = append(b.subset, v)
		}
	case strings.HasPrefix(line, prefixComment):
		b.comment = fieldValue(line, prefixComment)
	case strings.HasPrefix(line, prefixIsObsolete):
		b.isObsolete = extractIsObsolete(line)
	case strings.HasPrefix(line, prefixIsA):
		parent, err := extractParentID(line)
		if err != nil {
			return err
		}
		if parent != "" {
			b.parentIDs = append(b.parentIDs, parent)
		}
	case strings.HasPrefix(line, prefixRelationship):
		// only is_a builds the hierarchy
	}
	return nil
}

func fieldName(line string) string {
	if i := strings.Index(line, ":"); i > 0 {
		return line[:i]
	}
	return line
}

// Parse reads every [Term] stanza of text, links the is_a hierarchy and
// returns the resulting ontology. On error no ontology is returned.
func Parse(text string) (*Ontology, error) {
	a := &assembler{}
	for l := range classify(text) {
		if err := a.feed(l); err != nil {
			return nil, err
		}
	}
	a.finish()

	o := newOntology(a.terms)
	o.link(a.edges)
	o.dataVersion, o.hasDataVersion = ParseDataVersion(text)
	return o, nil
}

func ParseReader(r io.Reader) (*Ontology, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading obo input")
	}
	return Parse(string(b))
}
