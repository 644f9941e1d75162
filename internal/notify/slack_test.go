package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"diderot/internal/model"
)

func digestReport() *model.DailyReport {
	return &model.DailyReport{
		Date: "2026-08-23",
		Headlines: []model.HeadlineReport{
			{NeutralTitle: "Senate passes budget bill"},
			{NeutralTitle: "Trade talks collapse", Degraded: true, DegradedReason: "extracting facts"},
		},
		GeneratedAt: time.Now().UTC(),
		Status:      model.RunPartial,
	}
}

func TestSlackAnnouncePostsOverview(t *testing.T) {
	var got struct {
		Channel string `json:"channel"`
		Text    string `json:"text"`
	}
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	slack := NewSlack("xoxb-test", "#digests")
	slack.apiURL = srv.URL

	require.NoError(t, slack.Announce(context.Background(), digestReport()))
	require.Equal(t, "Bearer xoxb-test", auth)
	require.Equal(t, "#digests", got.Channel)
	require.Contains(t, got.Text, "2026-08-23")
	require.Contains(t, got.Text, "partial")
	require.Contains(t, got.Text, "2 headlines")
	require.Contains(t, got.Text, "Senate passes budget bill")
	require.Contains(t, got.Text, "Trade talks collapse (degraded)")
}

func TestSlackAnnounceSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	}))
	defer srv.Close()

	slack := NewSlack("xoxb-test", "#nowhere")
	slack.apiURL = srv.URL

	err := slack.Announce(context.Background(), digestReport())
	require.Error(t, err)
	require.Contains(t, err.Error(), "channel_not_found")
}

func TestSlackAnnounceSurfacesHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	slack := NewSlack("xoxb-test", "#digests")
	slack.apiURL = srv.URL

	err := slack.Announce(context.Background(), digestReport())
	require.Error(t, err)
	require.Contains(t, err.Error(), "504")
}
