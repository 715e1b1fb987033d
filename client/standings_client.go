// Package client talks to a remote standings backend over its REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/horse-tournament/models"
	"github.com/Dosada05/horse-tournament/services"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// StandingsClient реализует services.StandingsGateway поверх
// /tournaments/standings удалённого бэкенда.
type StandingsClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

type Option func(*StandingsClient)

// WithHTTPClient replaces the default client, whose timeout is 10s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *StandingsClient) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *StandingsClient) { c.httpClient.Timeout = d }
}

// WithBearerToken sends the token with every request. Saving requires the organizer role.
func WithBearerToken(token string) Option {
	return func(c *StandingsClient) { c.token = token }
}

func NewStandingsClient(baseURL string, opts ...Option) (*StandingsClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", baseURL)
	}
	c := &StandingsClient{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ services.StandingsGateway = (*StandingsClient)(nil)

func (c *StandingsClient) GetStandings(ctx context.Context, tournamentID int) (*models.Standings, error) {
	return c.do(ctx, "load", http.MethodGet, c.standingsPath(tournamentID), nil)
}

func (c *StandingsClient) GenerateFirstRound(ctx context.Context, tournamentID int) (*models.Standings, error) {
	return c.do(ctx, "generate_first_round", http.MethodGet, c.standingsPath(tournamentID)+"/first-round", nil)
}

func (c *StandingsClient) SaveStandings(ctx context.Context, tournamentID int, input models.UpdateParticipantsInput) (*models.Standings, error) {
	return c.do(ctx, "save", http.MethodPut, c.standingsPath(tournamentID), input)
}

func (c *StandingsClient) standingsPath(tournamentID int) string {
	return "/tournaments/standings/" + strconv.Itoa(tournamentID)
}

func (c *StandingsClient) do(ctx context.Context, op, method, path string, body interface{}) (*models.Standings, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &services.RemoteError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return nil, &services.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &services.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(op, resp)
	}

	var standings models.Standings
	if err := json.NewDecoder(resp.Body).Decode(&standings); err != nil {
		return nil, &services.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &standings, nil
}

// errorBody - формат ошибки бэкенда, errors может отсутствовать.
type errorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func decodeError(op string, resp *http.Response) error {
	remote := &services.RemoteError{Op: op, StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		remote.Message = body.Message
		remote.Errors = body.Errors
		return remote
	}
	remote.Message = strings.TrimSpace(string(raw))
	if remote.Message == "" {
		remote.Message = http.StatusText(resp.StatusCode)
	}
	return remote
}
