package psimod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unipept/psimod-transformer/obo"
)

func TestTransformer_transformTerm(t *testing.T) {
	type testStruct struct {
		testName         string
		term             *obo.Term
		baseURL          string
		expectedUUID     string
		expectedLabel    string
		expectedAPIURL   string
		expectedSynonyms []Synonym
		expectedXrefs    []Xref
		expectedObsolete bool
	}

	serine := &obo.Term{
		ID:         "MOD:00046",
		Name:       "O-phospho-L-serine",
		Definition: "A protein modification.",
		Synonyms:   []obo.Synonym{{Text: "PSer", Scope: obo.ScopeExact, Type: "PSI-MOD-label"}},
		Xrefs:      []obo.Xref{{Database: "Origin", Value: "S"}},
		Parents:    []string{"MOD:00696"},
	}
	root := &obo.Term{ID: "MOD:00000", Name: "protein modification", Definition: "Root.", IsObsolete: true}

	scenarios := []testStruct{
		{
			testName:         "serine",
			term:             serine,
			baseURL:          "http://localhost:8080/terms/",
			expectedUUID:     "b11ee758-7ad6-3f33-8991-b38cca55cc50",
			expectedLabel:    "O-phospho-L-serine",
			expectedAPIURL:   "http://localhost:8080/terms/MOD:00046",
			expectedSynonyms: []Synonym{{Text: "PSer", Scope: "EXACT", Type: "PSI-MOD-label"}},
			expectedXrefs:    []Xref{{Database: "Origin", Value: "S"}},
		},
		{
			testName:         "root without base url",
			term:             root,
			expectedUUID:     "645d2da7-7c3c-33e1-bc14-f8db309bb5a1",
			expectedLabel:    "protein modification",
			expectedObsolete: true,
		},
	}

	for _, scenario := range scenarios {
		result := transformTerm(scenario.term, scenario.baseURL)
		assert.Equal(t, scenario.expectedUUID, result.UUID, "Scenario "+scenario.testName+" failed")
		assert.Equal(t, scenario.term.ID, result.ID, "Scenario "+scenario.testName+" failed")
		assert.Equal(t, scenario.expectedLabel, result.PrefLabel, "Scenario "+scenario.testName+" failed")
		assert.Equal(t, scenario.expectedAPIURL, result.APIURL, "Scenario "+scenario.testName+" failed")
		assert.Equal(t, scenario.expectedSynonyms, result.Synonyms, "Scenario "+scenario.testName+" failed")
		assert.Equal(t, scenario.expectedXrefs, result.Xrefs, "Scenario "+scenario.testName+" failed")
		assert.Equal(t, scenario.expectedObsolete, result.IsObsolete, "Scenario "+scenario.testName+" failed")
		assert.Equal(t, scenario.term.Parents, result.ParentIDs, "Scenario "+scenario.testName+" failed")
	}
}

func TestTransformer_transformTerms(t *testing.T) {
	concepts := transformTerms([]*obo.Term{{ID: "MOD:1"}, {ID: "MOD:2"}}, "")
	assert.Len(t, concepts, 2)
	assert.Equal(t, "MOD:1", concepts[0].ID)
	assert.Equal(t, "MOD:2", concepts[1].ID)

	assert.NotNil(t, transformTerms(nil, ""))
}
