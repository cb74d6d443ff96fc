package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/kickpredict/api/internal/domain/match"
	"github.com/kickpredict/api/internal/domain/user"
	"github.com/kickpredict/api/internal/infrastructure/repository/memory"
	"github.com/kickpredict/api/internal/platform/id"
	"github.com/kickpredict/api/internal/platform/logging"
	"github.com/kickpredict/api/internal/usecase"
)

var routerKickoff = time.Date(2026, 6, 14, 18, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, now time.Time) http.Handler {
	t.Helper()

	clock := func() time.Time { return now }
	fixtures := []match.Match{
		{
			ID:        "m1",
			HomeTeam:  match.Team{ID: "ned", Name: "Netherlands"},
			AwayTeam:  match.Team{ID: "sen", Name: "Senegal"},
			KickoffAt: routerKickoff,
			Status:    match.StatusScheduled,
			Stage:     match.StageGroup,
			Group:     "A",
		},
	}

	matchRepo := memory.NewMatchRepository(fixtures, clock)
	predictionRepo := memory.NewPredictionRepository(matchRepo, clock)
	leagueRepo := memory.NewLeagueRepository()
	userRepo := memory.NewUserRepository(clock)
	snapshotRepo := memory.NewSnapshotRepository()
	idGen := id.NewRandomGenerator()
	logger := logging.NewNop()

	settlement := usecase.NewSettlementService(matchRepo, predictionRepo, nil, logger, 2)
	handler := NewHandler(
		usecase.NewMatchService(matchRepo, nil, settlement, nil, logger, clock),
		usecase.NewPredictionService(predictionRepo, matchRepo, userRepo, idGen, clock),
		usecase.NewStandingsService(matchRepo, nil),
		usecase.NewLeaderboardService(predictionRepo, matchRepo, leagueRepo, userRepo, snapshotRepo, nil, clock),
		usecase.NewLeagueService(leagueRepo, userRepo, idGen, clock),
		logger,
	)

	verifier := stubVerifier{principal: user.Principal{UserID: "u1", Username: "alice"}}
	return NewRouter(handler, verifier, logger, []string{"*"}, "job-secret")
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, routerKickoff.Add(-24*time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_SubmitPrediction(t *testing.T) {
	router := newTestRouter(t, routerKickoff.Add(-24*time.Hour))

	body := `{"match_id":"m1","home_goals":2,"away_goals":0,"is_joker":true}`
	req := httptest.NewRequest(http.MethodPut, "/v1/predictions", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data predictionDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.MatchID != "m1" || envelope.Data.HomeGoals != 2 || !envelope.Data.IsJoker {
		t.Fatalf("unexpected prediction payload: %+v", envelope.Data)
	}
}

func TestRouter_SubmitPredictionRejectsUnknownField(t *testing.T) {
	router := newTestRouter(t, routerKickoff.Add(-24*time.Hour))

	body := `{"match_id":"m1","home_goals":2,"away_goals":0,"bogus":true}`
	req := httptest.NewRequest(http.MethodPut, "/v1/predictions", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_SubmitPredictionWhenLocked(t *testing.T) {
	router := newTestRouter(t, routerKickoff.Add(-15*time.Minute))

	body := `{"match_id":"m1","home_goals":1,"away_goals":1}`
	req := httptest.NewRequest(http.MethodPut, "/v1/predictions", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_FinishMatchRequiresJobToken(t *testing.T) {
	router := newTestRouter(t, routerKickoff.Add(2*time.Hour))

	body := `{"home_goals":2,"away_goals":0}`
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/matches/m1/finish", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/matches/m1/finish", strings.NewReader(body))
	req.Header.Set("X-Internal-Job-Token", "job-secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_GlobalLeaderboardIsPublic(t *testing.T) {
	router := newTestRouter(t, routerKickoff.Add(-24*time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
