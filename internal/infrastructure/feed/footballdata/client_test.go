package footballdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kickpredict/api/internal/domain/match"
	"github.com/kickpredict/api/internal/platform/logging"
	"github.com/kickpredict/api/internal/platform/resilience"
)

const sampleEnvelope = `{
	"matches": [
		{
			"id": 391882,
			"utcDate": "2026-06-11T16:00:00Z",
			"status": "TIMED",
			"stage": "GROUP_STAGE",
			"group": "GROUP_A",
			"homeTeam": {"id": 759, "name": "Netherlands", "tla": "NED", "crest": "https://crests.example/ned.png"},
			"awayTeam": {"id": 7049, "name": "Ecuador", "tla": "ECU", "crest": "https://crests.example/ecu.png"},
			"score": {"fullTime": {"home": null, "away": null}}
		},
		{
			"id": 391883,
			"utcDate": "2026-06-11T19:00:00Z",
			"status": "FINISHED",
			"stage": "GROUP_STAGE",
			"group": "GROUP_A",
			"homeTeam": {"id": 758, "name": "Qatar", "tla": "QAT", "crest": ""},
			"awayTeam": {"id": 776, "name": "Senegal", "tla": "SEN", "crest": ""},
			"score": {"fullTime": {"home": 1, "away": 3}}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		Token:          "token-123",
		Competition:    "WC",
		MaxRetries:     0,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
	return client, server
}

func TestListMatchesMapsPayload(t *testing.T) {
	t.Parallel()

	var gotToken, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Auth-Token")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleEnvelope))
	})

	matches, err := client.ListMatches(context.Background())
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if gotToken != "token-123" {
		t.Fatalf("unexpected auth token header: %q", gotToken)
	}
	if gotPath != "/competitions/WC/matches" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	scheduled := matches[0]
	if scheduled.ID != "fd-391882" {
		t.Fatalf("unexpected id: %q", scheduled.ID)
	}
	if scheduled.Status != match.StatusScheduled {
		t.Fatalf("TIMED must map to scheduled, got %q", scheduled.Status)
	}
	if scheduled.Group != "A" {
		t.Fatalf("expected bare group letter, got %q", scheduled.Group)
	}
	if scheduled.FinalScore != nil {
		t.Fatal("scheduled match must not carry a final score")
	}
	if scheduled.HomeTeam.Short != "NED" {
		t.Fatalf("unexpected home team: %+v", scheduled.HomeTeam)
	}

	finished := matches[1]
	if finished.Status != match.StatusFinished {
		t.Fatalf("unexpected status: %q", finished.Status)
	}
	if finished.FinalScore == nil || finished.FinalScore.Home != 1 || finished.FinalScore.Away != 3 {
		t.Fatalf("unexpected final score: %+v", finished.FinalScore)
	}
}

func TestListMatchesNonRetryableStatus(t *testing.T) {
	t.Parallel()

	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	if _, err := client.ListMatches(context.Background()); err == nil {
		t.Fatal("expected error for 403")
	}
	if calls != 1 {
		t.Fatalf("403 must not be retried, got %d calls", calls)
	}
}

func TestListMatchesCircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		Token:      "token-123",
		MaxRetries: 0,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
		},
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.ListMatches(ctx); err == nil {
			t.Fatalf("expected failure on call %d", i)
		}
	}

	_, err := client.ListMatches(ctx)
	if err == nil {
		t.Fatal("expected circuit-open error")
	}
	if client.breaker.State() != resilience.CircuitStateOpen {
		t.Fatalf("expected open circuit, got %s", client.breaker.State())
	}
}
