package psimod

import (
	"github.com/pborman/uuid"
	"github.com/unipept/psimod-transformer/obo"
)

func transformTerm(term *obo.Term, baseURL string) TermConcept {
	concept := TermConcept{
		UUID:            termUUID(term.ID),
		ID:              term.ID,
		PrefLabel:       term.Name,
		Definition:      term.Definition,
		DefinitionXrefs: term.DefinitionXrefs,
		IsObsolete:      term.IsObsolete,
		Comment:         term.Comment,
		Subsets:         term.Subset,
		ParentIDs:       term.Parents,
		ChildIDs:        term.Children,
	}
	if baseURL != "" {
		concept.APIURL = baseURL + term.ID
	}
	for _, s := range term.Synonyms {
		concept.Synonyms = append(concept.Synonyms, Synonym{
			Text:  s.Text,
			Scope: string(s.Scope),
			Type:  s.Type,
			Xrefs: s.Xrefs,
		})
	}
	for _, x := range term.Xrefs {
		concept.Xrefs = append(concept.Xrefs, Xref{Database: x.Database, Value: x.Value})
	}
	return concept
}

func transformTerms(terms []*obo.Term, baseURL string) []TermConcept {
	concepts := make([]TermConcept, 0, len(terms))
	for _, t := range terms {
		concepts = append(concepts, transformTerm(t, baseURL))
	}
	return concepts
}

func termUUID(id string) string {
	return uuid.NewMD5(uuid.UUID{}, []byte(id)).String()
}
