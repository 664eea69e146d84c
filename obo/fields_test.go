package obo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSynonym(t *testing.T) {
	type testStruct struct {
		testName    string
		line        string
		expected    Synonym
		expectedOK  bool
		expectedErr error
	}

	scenarios := []testStruct{
		{
			testName:   "with refs",
			line:       `synonym: "Phospho" RELATED PSI-MS-label [Unimod:21, , RESID:AA0037]`,
			expected:   Synonym{Text: "Phospho", Scope: ScopeRelated, Type: "PSI-MS-label", Xrefs: []string{"Unimod:21", "RESID:AA0037"}},
			expectedOK: true,
		},
		{
			testName:   "escaped quote",
			line:       `synonym: "5\"-phospho" NARROW RESID-name []`,
			expected:   Synonym{Text: `5"-phospho`, Scope: ScopeNarrow, Type: "RESID-name"},
			expectedOK: true,
		},
		{
			testName:   "without bracket list",
			line:       `synonym: "pS" BROAD PSI-MOD-alternate`,
			expected:   Synonym{Text: "pS", Scope: ScopeBroad, Type: "PSI-MOD-alternate"},
			expectedOK: true,
		},
		{testName: "no quotes", line: `synonym: Phospho EXACT PSI-MS-label []`},
		{
			testName:   "unescaped inner quotes",
			line:       `synonym: "A "quoted" label" EXACT PSI-MOD-alternate [RESID:AA0037]`,
			expected:   Synonym{Text: `A "quoted" label`, Scope: ScopeExact, Type: "PSI-MOD-alternate", Xrefs: []string{"RESID:AA0037"}},
			expectedOK: true,
		},
		{
			testName:   "bracket list in type position",
			line:       `synonym: "s1" EXACT [RESID:AA1]`,
			expected:   Synonym{Text: "s1", Scope: ScopeExact, Type: "[RESID:AA1]"},
			expectedOK: true,
		},
		{
			testName:   "empty bracket list in type position",
			line:       `synonym: "Phospho" EXACT []`,
			expected:   Synonym{Text: "Phospho", Scope: ScopeExact, Type: "[]"},
			expectedOK: true,
		},
		{testName: "missing type", line: `synonym: "Phospho" EXACT`},
		{testName: "empty text", line: `synonym: "" EXACT PSI-MOD-label []`},
		{testName: "scope missing", line: `synonym: "Phospho"`, expectedErr: ErrInvalidSynonymScope},
		{testName: "scope missing after inner quotes", line: `synonym: "A "quoted" label"`, expectedErr: ErrInvalidSynonymScope},
		{testName: "lower case scope", line: `synonym: "Phospho" exact PSI-MS-label []`, expectedErr: ErrInvalidSynonymScope},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.testName, func(t *testing.T) {
			syn, ok, err := extractSynonym(scenario.line)
			if scenario.expectedErr != nil {
				assert.ErrorIs(t, err, scenario.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, scenario.expectedOK, ok)
			if ok {
				assert.Equal(t, scenario.expected, syn)
			}
		})
	}
}

func TestExtractDefinition(t *testing.T) {
	text, refs, err := extractDefinition(`def: "A \"quoted\" word." [PubMed:1,RESID:AA0001 , ]`)
	assert.NoError(t, err)
	assert.Equal(t, `A "quoted" word.`, text)
	assert.Equal(t, []string{"PubMed:1", "RESID:AA0001"}, refs)

	text, refs, err = extractDefinition(`def: "No refs."`)
	assert.NoError(t, err)
	assert.Equal(t, "No refs.", text)
	assert.Nil(t, refs)

	text, refs, err = extractDefinition(`def: "A "quoted" word." [x]`)
	assert.NoError(t, err)
	assert.Equal(t, `A "quoted" word.`, text)
	assert.Equal(t, []string{"x"}, refs)

	_, _, err = extractDefinition(`def: No quotes at all.`)
	assert.ErrorIs(t, err, ErrInvalidDefinition)

	_, _, err = extractDefinition(`def: "Unterminated [x]`)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestExtractXref(t *testing.T) {
	type testStruct struct {
		testName string
		line     string
		expected Xref
		ok       bool
	}

	scenarios := []testStruct{
		{testName: "quoted value", line: `xref: DiffAvg: "79.98"`, expected: Xref{Database: "DiffAvg", Value: "79.98"}, ok: true},
		{testName: "db id style", line: `xref: Unimod:21`, expected: Xref{Database: "Unimod", Value: "21"}, ok: true},
		{testName: "annotation", line: `xref: Unimod: "Unimod:21" ! Phospho`, expected: Xref{Database: "Unimod", Value: "Unimod:21"}, ok: true},
		{testName: "single quotes", line: `xref: Origin: 'S'`, expected: Xref{Database: "Origin", Value: "S"}, ok: true},
		{testName: "unmatched quotes kept", line: `xref: Origin: "S'`, expected: Xref{Database: "Origin", Value: `"S'`}, ok: true},
		{testName: "case preserved", line: `xref: SMILES: "C(=O)O"`, expected: Xref{Database: "SMILES", Value: "C(=O)O"}, ok: true},
		{testName: "no colon", line: `xref: nothing here`},
		{testName: "leading colon", line: `xref: :value`},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.testName, func(t *testing.T) {
			x, ok := extractXref(scenario.line)
			assert.Equal(t, scenario.ok, ok)
			assert.Equal(t, scenario.expected, x)
		})
	}
}

func TestExtractIsObsolete(t *testing.T) {
	for line, expected := range map[string]bool{
		"is_obsolete: true":  true,
		"is_obsolete: TRUE ": true,
		"is_obsolete: t":     true,
		"is_obsolete: 1":     true,
		"is_obsolete: false": false,
		"is_obsolete: yes":   false,
		"is_obsolete:":       false,
	} {
		assert.Equal(t, expected, extractIsObsolete(line), line)
	}
}

func TestExtractParentID(t *testing.T) {
	id, err := extractParentID("is_a: MOD:00000 ! protein modification")
	assert.NoError(t, err)
	assert.Equal(t, "MOD:00000", id)

	id, err = extractParentID("is_a: MOD:00000 {source=x} ! protein modification")
	assert.NoError(t, err)
	assert.Equal(t, "MOD:00000", id)

	id, err = extractParentID("is_a: ! nothing")
	assert.NoError(t, err)
	assert.Empty(t, id)

	_, err = extractParentID("is_a: MOD:00000")
	assert.ErrorIs(t, err, ErrMissingIsASeparator)
}

func TestClassify(t *testing.T) {
	var kinds []lineKind
	var texts []string
	seq := classify("format-version: 1.4\r\n\n[Term]\n  id: MOD:1  \n[Typedef]\n")
	for l := range seq {
		kinds = append(kinds, l.kind)
		texts = append(texts, l.text)
	}
	assert.Equal(t, []lineKind{lineField, lineBlank, lineTermHeader, lineField, lineStanzaHeader}, kinds)
	assert.Equal(t, []string{"format-version: 1.4", "", "[Term]", "  id: MOD:1", "[Typedef]"}, texts)

	n := 0
	for range seq {
		n++
	}
	assert.Equal(t, 5, n)
}
