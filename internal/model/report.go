package model

import "time"

// DateLayout is the key format for daily reports.
const DateLayout = "2006-01-02"

// RunStatus summarizes how a pipeline run went.
type RunStatus string

const (
	RunComplete RunStatus = "complete"
	RunPartial  RunStatus = "partial"
	RunFailed   RunStatus = "failed"
)

type Citation struct {
	Source string `json:"source"`
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
}

// HeadlineReport is the finished analysis of one headline. Degraded
// reports kept their headline but lost some or all analysis stages.
type HeadlineReport struct {
	Headline       Headline              `json:"headline"`
	NeutralTitle   string                `json:"neutral_title"`
	NeutralSummary string                `json:"neutral_summary"`
	Perspectives   []PerspectiveAnalysis `json:"perspectives"`
	Citations      []Citation            `json:"citations"`
	Degraded       bool                  `json:"degraded,omitempty"`
	DegradedReason string                `json:"degraded_reason,omitempty"`
}

type DailyReport struct {
	Date        string           `json:"date"`
	Headlines   []HeadlineReport `json:"headlines"`
	GeneratedAt time.Time        `json:"generated_at"`
	Status      RunStatus        `json:"status"`
}
