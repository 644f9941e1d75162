// Package notify announces finished digests to the channels the team
// watches: a Slack channel and a Kafka topic for downstream consumers.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"diderot/internal/model"
)

const defaultSlackAPIURL = "https://slack.com/api/chat.postMessage"

// Slack posts a digest overview to one channel via chat.postMessage
// with a bot token.
type Slack struct {
	token      string
	channel    string
	apiURL     string
	httpClient *http.Client
}

func NewSlack(token, channel string) *Slack {
	return &Slack{
		token:   token,
		channel: channel,
		apiURL:  defaultSlackAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Announce posts the report overview: date, status, headline count and
// the leading titles.
func (s *Slack) Announce(ctx context.Context, rep *model.DailyReport) error {
	payload := map[string]interface{}{
		"channel": s.channel,
		"text":    formatOverview(rep),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack API returned status %d", resp.StatusCode)
	}

	var result struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding slack response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("slack API error: %s", result.Error)
	}
	return nil
}

func formatOverview(rep *model.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily digest for %s (%s): %d headlines", rep.Date, rep.Status, len(rep.Headlines))

	limit := 5
	if len(rep.Headlines) < limit {
		limit = len(rep.Headlines)
	}
	for _, hr := range rep.Headlines[:limit] {
		marker := ""
		if hr.Degraded {
			marker = " (degraded)"
		}
		fmt.Fprintf(&b, "\n• %s%s", hr.NeutralTitle, marker)
	}
	if len(rep.Headlines) > limit {
		fmt.Fprintf(&b, "\n…and %d more", len(rep.Headlines)-limit)
	}
	return b.String()
}
