package pipeline

import (
	"context"
	"fmt"
	"strings"

	"diderot/internal/feed"
	"diderot/internal/model"
)

// Stage definitions. Temperatures step down as the work moves from
// creative (inventing headlines) to factual (neutral summary).
var (
	StageClassifyHeadlines = StageSpec{
		Name: "classify_headlines",
		System: "You are a news editor sorting headlines into world, politics or other. " +
			"Entertainment, sports and local stories are 'other' unless they have major political or world implications.",
		Temperature: 0.1,
		MaxTokens:   1000,
	}

	StageGenerateHeadlines = StageSpec{
		Name: "generate_headlines",
		System: "You are a news editor with broad knowledge of current world and political events. " +
			"You produce plausible, significant headlines of the kind leading outlets run today.",
		Temperature: 0.7,
		MaxTokens:   1000,
	}

	StageSynthesizeArticle = StageSpec{
		Name: "synthesize_article",
		System: "You are a media analyst who knows each major outlet's editorial voice and emphasis. " +
			"You write short representative summaries of how a given outlet would cover a story.",
		Temperature: 0.5,
		MaxTokens:   800,
	}

	StageExtractFacts = StageSpec{
		Name: "extract_facts",
		System: "You are a research compiler that analyzes articles to extract facts and opinions. " +
			"You distinguish clearly between verifiable facts and interpretations, and you cross-reference facts across sources.",
		Temperature: 0.1,
		MaxTokens:   4000,
	}

	StageDeterminePerspectives = StageSpec{
		Name: "determine_perspectives",
		System: "You are an analyst that maps how outlets across the political spectrum frame a story. " +
			"You identify the stance behind each group's coverage and the justification it rests on.",
		Temperature: 0.6,
		MaxTokens:   800,
	}

	StageDetectFlaws = StageSpec{
		Name: "detect_flaws",
		System: "You are a flaws analyst reviewing one framing of a news story. " +
			"You identify logical fallacies, missing context and selective reporting, constructively.",
		Temperature: 0.6,
		MaxTokens:   800,
	}

	StageSynthesize = StageSpec{
		Name: "synthesize_analysis",
		System: "You are a birds-eye analyst consolidating perspective analyses into a balanced overview. " +
			"You name perspectives by their actual policy stance, never generic labels.",
		Temperature: 0.6,
		MaxTokens:   800,
	}

	StageComposeReport = StageSpec{
		Name: "compose_report",
		System: "You are a professional journalist writing for a neutral wire service. " +
			"You report objective facts in clear prose and never editorialize.",
		Temperature: 0.3,
		MaxTokens:   300,
	}
)

// GeneratedHeadline is the wire shape of a model-invented headline.
type GeneratedHeadline struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// SynthesizedArticle is the wire shape of a model-written outlet summary.
type SynthesizedArticle struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// NeutralReport is the wire shape of the final neutral rendering.
type NeutralReport struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// ClassifyHeadlines sorts candidate titles into categories. The result
// is keyed by normalized title; titles the model dropped or mangled
// are simply absent, and callers default those to CategoryOther.
func (r *Runner) ClassifyHeadlines(ctx context.Context, titles []string) (map[string]model.Category, error) {
	var b strings.Builder
	b.WriteString("Categorize each of these headlines as 'world', 'politics' or 'other':\n\n")
	for _, title := range titles {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	b.WriteString("\nReturn only valid JSON in this format:\n")
	b.WriteString(`[{"title": "Headline text", "category": "world|politics|other"}]`)

	classified, err := runStage[[]GeneratedHeadline](ctx, r, StageClassifyHeadlines, b.String())
	if err != nil {
		return nil, err
	}

	categories := make(map[string]model.Category, len(classified))
	for _, c := range classified {
		categories[feed.NormalizeTitle(c.Title)] = model.ParseCategory(c.Category)
	}
	return categories, nil
}

// GenerateHeadlines invents n current-events headlines, the fallback
// when no live feed is reachable.
func (r *Runner) GenerateHeadlines(ctx context.Context, n int) ([]GeneratedHeadline, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce %d significant news headlines a major outlet could plausibly run today. ", n)
	b.WriteString("Focus on world and political issues. Avoid entertainment, sports and local news.\n\n")
	b.WriteString("Return only valid JSON in this format:\n")
	b.WriteString(`[{"title": "Headline text", "category": "world|politics|other"}]`)

	return runStage[[]GeneratedHeadline](ctx, r, StageGenerateHeadlines, b.String())
}

// SynthesizeArticle writes a short representative summary of how one
// outlet would cover the headline, used when no live item matches.
func (r *Runner) SynthesizeArticle(ctx context.Context, source string, bucket model.Bucket, headline string) (SynthesizedArticle, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Headline: %s\n\n", headline)
	fmt.Fprintf(&b, "Write the title and a 2-3 sentence summary of the article %s (a %s-leaning outlet) would publish about this story, ", source, bucket)
	b.WriteString("reflecting that outlet's typical emphasis and voice.\n\n")
	b.WriteString("Return only valid JSON in this format:\n")
	b.WriteString(`{"title": "Article title", "summary": "Article summary"}`)

	return runStage[SynthesizedArticle](ctx, r, StageSynthesizeArticle, b.String())
}

// ExtractFacts separates the gathered coverage into corroborated facts
// and per-outlet opinions.
func (r *Runner) ExtractFacts(ctx context.Context, h model.Headline, articles []model.SourcedArticle) (model.FactSet, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Headline: %s\n\nCoverage:\n", h.Title)
	b.WriteString(formatArticles(articles))
	b.WriteString("\nExtract the verifiable facts (dates, numbers, quotes, events) and the opinions or interpretations. ")
	b.WriteString("Attribute each fact to every source that reports it and each opinion to its one source.\n\n")
	b.WriteString("Return only valid JSON in this format:\n")
	b.WriteString(`{"facts": [{"text": "...", "sources": ["Source A", "Source B"]}], "opinions": [{"text": "...", "source": "Source A"}]}`)

	parsed, err := runStage[struct {
		Facts    []model.AttributedFact    `json:"facts"`
		Opinions []model.AttributedOpinion `json:"opinions"`
	}](ctx, r, StageExtractFacts, b.String())
	if err != nil {
		return model.FactSet{}, err
	}

	return model.FactSet{
		HeadlineID: h.ID,
		Facts:      parsed.Facts,
		Opinions:   parsed.Opinions,
	}, nil
}

// DeterminePerspectives maps the coverage onto per-bucket stances.
func (r *Runner) DeterminePerspectives(ctx context.Context, facts model.FactSet, articles []model.SourcedArticle) ([]model.PerspectiveView, error) {
	var b strings.Builder
	b.WriteString("Coverage:\n")
	b.WriteString(formatArticles(articles))
	if len(facts.Facts) > 0 {
		b.WriteString("\nFacts consistent across sources:\n")
		for _, f := range facts.Facts {
			fmt.Fprintf(&b, "- %s\n", f.Text)
		}
	}
	b.WriteString("\nFor each perspective group present in the coverage (left, center, right), describe its stance: ")
	b.WriteString("a short name reflecting the actual position taken, the justification behind it, and the sources holding it. ")
	b.WriteString("Skip groups with no coverage.\n\n")
	b.WriteString("Return only valid JSON in this format:\n")
	b.WriteString(`{"perspectives": [{"bucket": "left|center|right", "name": "...", "justification": "...", "sources": ["..."]}]}`)

	parsed, err := runStage[struct {
		Perspectives []struct {
			Bucket        string   `json:"bucket"`
			Name          string   `json:"name"`
			Justification string   `json:"justification"`
			Sources       []string `json:"sources"`
		} `json:"perspectives"`
	}](ctx, r, StageDeterminePerspectives, b.String())
	if err != nil {
		return nil, err
	}

	views := make([]model.PerspectiveView, 0, len(parsed.Perspectives))
	for _, p := range parsed.Perspectives {
		views = append(views, model.PerspectiveView{
			HeadlineID:    facts.HeadlineID,
			Bucket:        model.ParseBucket(p.Bucket),
			Name:          p.Name,
			Justification: p.Justification,
			Sources:       p.Sources,
		})
	}
	return views, nil
}

// DetectFlaws reviews one perspective for reasoning problems.
func (r *Runner) DetectFlaws(ctx context.Context, view model.PerspectiveView) (model.FlawReport, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Perspective: %s\n", view.Name)
	fmt.Fprintf(&b, "Justification: %s\n", view.Justification)
	if len(view.Sources) > 0 {
		fmt.Fprintf(&b, "Held by: %s\n", strings.Join(view.Sources, ", "))
	}
	b.WriteString("\nIdentify the logical fallacies, missing context or counterarguments, and signs of bias or selective reporting in this framing.\n\n")
	b.WriteString("Return only valid JSON in this format:\n")
	b.WriteString(`{"fallacies": ["..."], "missing_context": ["..."], "bias_notes": ["..."]}`)

	return runStage[model.FlawReport](ctx, r, StageDetectFlaws, b.String())
}

// Synthesize consolidates the paired views and flaw reports into the
// final ordered analysis, renaming stances where the first pass was
// generic.
func (r *Runner) Synthesize(ctx context.Context, h model.Headline, analyses []model.PerspectiveAnalysis) ([]model.PerspectiveAnalysis, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Headline: %s\n\nPerspective analyses:\n", h.Title)
	for _, a := range analyses {
		fmt.Fprintf(&b, "\n[%s] %s\nJustification: %s\n", a.View.Bucket, a.View.Name, a.View.Justification)
		if len(a.Flaws.Fallacies) > 0 {
			fmt.Fprintf(&b, "Fallacies: %s\n", strings.Join(a.Flaws.Fallacies, "; "))
		}
		if len(a.Flaws.MissingContext) > 0 {
			fmt.Fprintf(&b, "Missing context: %s\n", strings.Join(a.Flaws.MissingContext, "; "))
		}
		if len(a.Flaws.BiasNotes) > 0 {
			fmt.Fprintf(&b, "Bias notes: %s\n", strings.Join(a.Flaws.BiasNotes, "; "))
		}
	}
	b.WriteString("\nConsolidate these into one entry per bucket, ordered left, center, right. ")
	b.WriteString("Give each perspective a specific name reflecting its actual policy stance, tighten the justifications, and keep the flaw lists.\n\n")
	b.WriteString("Return only valid JSON in this format:\n")
	b.WriteString(`{"perspectives": [{"bucket": "left|center|right", "name": "...", "justification": "...", "sources": ["..."], "flaws": {"fallacies": ["..."], "missing_context": ["..."], "bias_notes": ["..."]}}]}`)

	parsed, err := runStage[struct {
		Perspectives []struct {
			Bucket        string           `json:"bucket"`
			Name          string           `json:"name"`
			Justification string           `json:"justification"`
			Sources       []string         `json:"sources"`
			Flaws         model.FlawReport `json:"flaws"`
		} `json:"perspectives"`
	}](ctx, r, StageSynthesize, b.String())
	if err != nil {
		return nil, err
	}

	out := make([]model.PerspectiveAnalysis, 0, len(parsed.Perspectives))
	for _, p := range parsed.Perspectives {
		out = append(out, model.PerspectiveAnalysis{
			View: model.PerspectiveView{
				HeadlineID:    h.ID,
				Bucket:        model.ParseBucket(p.Bucket),
				Name:          p.Name,
				Justification: p.Justification,
				Sources:       p.Sources,
			},
			Flaws: p.Flaws,
		})
	}
	return out, nil
}

// ComposeReport writes the neutral title and summary from the facts.
func (r *Runner) ComposeReport(ctx context.Context, h model.Headline, facts model.FactSet) (NeutralReport, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Headline: %s\n", h.Title)
	if len(facts.Facts) > 0 {
		b.WriteString("\nFacts consistent across sources:\n")
		for _, f := range facts.Facts {
			fmt.Fprintf(&b, "- %s\n", f.Text)
		}
	} else {
		b.WriteString("\nNo source material is available. Summarize conservatively from the headline alone, without inventing specifics.\n")
	}
	b.WriteString("\nWrite a factual, neutral version of the headline and a 2-4 sentence neutral summary using only the facts above.\n\n")
	b.WriteString("Return only valid JSON in this format:\n")
	b.WriteString(`{"title": "Neutral headline", "summary": "Neutral summary"}`)

	return runStage[NeutralReport](ctx, r, StageComposeReport, b.String())
}

func formatArticles(articles []model.SourcedArticle) string {
	var b strings.Builder
	for _, a := range articles {
		fmt.Fprintf(&b, "- %s (%s): %s", a.Source, a.Bucket, a.Title)
		if a.Summary != "" {
			fmt.Fprintf(&b, " :: %s", a.Summary)
		}
		b.WriteString("\n")
	}
	return b.String()
}
