package model

// GlossaryTerm is one read-only reference entry.
type GlossaryTerm struct {
	ID                 string   `json:"id"`
	Term               string   `json:"term"`
	Category           string   `json:"category"`
	ShortDefinition    string   `json:"shortDefinition"`
	DetailedDefinition string   `json:"detailedDefinition"`
	UseCases           []string `json:"useCases"`
	RelatedTerms       []string `json:"relatedTerms"`
}
