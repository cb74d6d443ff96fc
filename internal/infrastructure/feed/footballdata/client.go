package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/kickpredict/api/internal/domain/match"
	"github.com/kickpredict/api/internal/platform/logging"
	"github.com/kickpredict/api/internal/platform/resilience"
)

const (
	defaultBaseURL     = "https://api.football-data.org/v4"
	defaultCompetition = "WC"
	defaultTimeout     = 20 * time.Second
	maxResponseBytes   = 6 << 20
)

var errFeedTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Token          string
	Competition    string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls fixtures from the football-data.org v4 API.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	token          string
	competition    string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	competition := strings.TrimSpace(cfg.Competition)
	if competition == "" {
		competition = defaultCompetition
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		competition:    competition,
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type matchesEnvelope struct {
	Matches []feedMatch `json:"matches"`
}

type feedMatch struct {
	ID       int64     `json:"id"`
	UTCDate  time.Time `json:"utcDate"`
	Status   string    `json:"status"`
	Stage    string    `json:"stage"`
	Group    string    `json:"group"`
	HomeTeam feedTeam  `json:"homeTeam"`
	AwayTeam feedTeam  `json:"awayTeam"`
	Score    feedScore `json:"score"`
}

type feedTeam struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	TLA   string `json:"tla"`
	Crest string `json:"crest"`
}

type feedScore struct {
	FullTime struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"fullTime"`
}

// ListMatches fetches the competition fixture list and maps it into domain
// matches. Concurrent callers share one in-flight request.
func (c *Client) ListMatches(ctx context.Context) ([]match.Match, error) {
	path := "/competitions/" + c.competition + "/matches"

	envelope, err := c.fetchMatches(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch matches competition=%s: %w", c.competition, err)
	}

	out := make([]match.Match, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapFeedMatch(item))
	}

	return out, nil
}

func mapFeedMatch(item feedMatch) match.Match {
	m := match.Match{
		ID:        "fd-" + strconv.FormatInt(item.ID, 10),
		HomeTeam:  mapFeedTeam(item.HomeTeam),
		AwayTeam:  mapFeedTeam(item.AwayTeam),
		KickoffAt: item.UTCDate,
		Status:    mapFeedStatus(item.Status),
		Stage:     strings.ToUpper(strings.TrimSpace(item.Stage)),
		Group:     mapFeedGroup(item.Group),
	}

	if match.IsFinishedStatus(item.Status) && item.Score.FullTime.Home != nil && item.Score.FullTime.Away != nil {
		m.FinalScore = &match.Score{
			Home: *item.Score.FullTime.Home,
			Away: *item.Score.FullTime.Away,
		}
	}

	return m
}

func mapFeedTeam(team feedTeam) match.Team {
	return match.Team{
		ID:    strconv.FormatInt(team.ID, 10),
		Name:  team.Name,
		Short: team.TLA,
		Crest: team.Crest,
	}
}

func mapFeedStatus(status string) string {
	switch {
	case match.IsFinishedStatus(status):
		return match.StatusFinished
	case match.IsLiveStatus(status):
		return match.StatusLive
	default:
		return match.StatusScheduled
	}
}

// mapFeedGroup turns the provider's "GROUP_A" label into the bare letter.
func mapFeedGroup(group string) string {
	group = strings.ToUpper(strings.TrimSpace(group))
	return strings.TrimPrefix(group, "GROUP_")
}

func (c *Client) fetchMatches(ctx context.Context, path string) (matchesEnvelope, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
			return matchesEnvelope{}, fmt.Errorf("%w: match feed is temporarily unavailable", resilience.ErrCircuitOpen)
		}
	}

	fullURL := c.baseURL + path

	out, err, _ := c.flight.Do(path, func() (any, error) {
		envelope, reqErr := c.requestAndDecode(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return envelope, reqErr
	})
	if err != nil {
		return matchesEnvelope{}, err
	}

	envelope, ok := out.(matchesEnvelope)
	if !ok {
		return matchesEnvelope{}, fmt.Errorf("unexpected response payload type %T", out)
	}

	return envelope, nil
}

// requestAndDecode decodes the payload straight from the pooled buffer and
// returns the buffer to the pool afterwards.
func (c *Client) requestAndDecode(ctx context.Context, fullURL string) (matchesEnvelope, error) {
	buf, err := c.executeRequest(ctx, fullURL)
	if err != nil {
		return matchesEnvelope{}, err
	}
	defer bytebufferpool.Put(buf)

	var envelope matchesEnvelope
	if err := sonic.Unmarshal(buf.B, &envelope); err != nil {
		return matchesEnvelope{}, fmt.Errorf("decode feed payload: %w", err)
	}

	return envelope, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) (*bytebufferpool.ByteBuffer, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		raw, err := c.doOnce(fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, errFeedTransient) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(fullURL string) (*bytebufferpool.ByteBuffer, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-Auth-Token", c.token)
	}

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errFeedTransient, err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("feed response exceeds %d bytes", maxResponseBytes)
	}

	if status < 200 || status >= 300 {
		if isRetryableStatus(status) {
			return nil, fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, status, abbreviateBody(body))
		}
		return nil, fmt.Errorf("feed status=%d body=%s", status, abbreviateBody(body))
	}

	// The fasthttp response buffer is reused once released; stage the body
	// in a pooled buffer that lives until the payload is decoded.
	buf := bytebufferpool.Get()
	_, _ = buf.Write(body)
	return buf, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case fasthttp.StatusTooManyRequests,
		fasthttp.StatusInternalServerError,
		fasthttp.StatusBadGateway,
		fasthttp.StatusServiceUnavailable,
		fasthttp.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(body []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
