package model

// AttributedFact is a claim multiple sources agree on, with the
// outlets that reported it.
type AttributedFact struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources"`
}

// AttributedOpinion is a single outlet's characterization or framing.
type AttributedOpinion struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// FactSet is the separation of one headline's coverage into shared
// facts and per-outlet opinions.
type FactSet struct {
	HeadlineID string              `json:"headline_id"`
	Facts      []AttributedFact    `json:"facts"`
	Opinions   []AttributedOpinion `json:"opinions"`
}

// PerspectiveView is one bucket's stance on a headline.
type PerspectiveView struct {
	HeadlineID    string   `json:"headline_id"`
	Bucket        Bucket   `json:"bucket"`
	Name          string   `json:"name"`
	Justification string   `json:"justification"`
	Sources       []string `json:"sources"`
}

// FlawReport lists the reasoning problems found in a single view.
type FlawReport struct {
	Fallacies      []string `json:"fallacies"`
	MissingContext []string `json:"missing_context"`
	BiasNotes      []string `json:"bias_notes"`
}

// PerspectiveAnalysis pairs a view with its flaw check.
type PerspectiveAnalysis struct {
	View  PerspectiveView `json:"view"`
	Flaws FlawReport      `json:"flaws"`
}
