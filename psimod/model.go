package psimod

type TermConcept struct {
	UUID            string    `json:"uuid"`
	ID              string    `json:"id"`
	PrefLabel       string    `json:"prefLabel,omitempty"`
	Definition      string    `json:"definition,omitempty"`
	DefinitionXrefs []string  `json:"definitionXrefs,omitempty"`
	Synonyms        []Synonym `json:"synonyms,omitempty"`
	Xrefs           []Xref    `json:"xrefs,omitempty"`
	IsObsolete      bool      `json:"isObsolete,omitempty"`
	Comment         string    `json:"comment,omitempty"`
	Subsets         []string  `json:"subsets,omitempty"`
	ParentIDs       []string  `json:"parentIds,omitempty"`
	ChildIDs        []string  `json:"childIds,omitempty"`
	APIURL          string    `json:"apiUrl,omitempty"`
}

type Synonym struct {
	Text  string   `json:"text"`
	Scope string   `json:"scope"`
	Type  string   `json:"type"`
	Xrefs []string `json:"xrefs,omitempty"`
}

type Xref struct {
	Database string `json:"database"`
	Value    string `json:"value"`
}

type TermID struct {
	ID string `json:"id"`
}

type DataVersion struct {
	DataVersion string `json:"dataVersion"`
}

type Status struct {
	State       string `json:"status"`
	Terms       int    `json:"terms"`
	DataVersion string `json:"dataVersion,omitempty"`
	Error       string `json:"error,omitempty"`
}
