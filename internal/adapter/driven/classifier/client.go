// Package classifier implements the Classifier port against a zero-shot
// text-classification inference endpoint.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"golang.org/x/oauth2"

	"github.com/ericfisherdev/govscan/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Classifier = (*Client)(nil)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client posts descriptions to a Hugging Face style zero-shot endpoint.
type Client struct {
	http     *http.Client
	endpoint string
}

// NewClient creates a Client for endpoint. When token is non-empty every
// request carries it as a bearer token.
func NewClient(endpoint, token string, timeout time.Duration) *Client {
	return NewClientWithHTTPClient(&http.Client{Timeout: timeout}, endpoint, token)
}

// NewClientWithHTTPClient creates a Client on top of httpClient.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, endpoint, token string) *Client {
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		authed.Timeout = httpClient.Timeout
		httpClient = authed
	}
	return &Client{http: httpClient, endpoint: endpoint}
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

// rankedResponse is the classic pipeline output: parallel label and score arrays.
type rankedResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// labelScore is one element of the list-shaped output newer endpoints return.
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the endpoint's predictions for text, highest score first.
// A non-200 response is returned as a *driven.APIError.
func (c *Client) Classify(ctx context.Context, text string, candidateLabels []string) ([]driven.Prediction, error) {
	body, err := json.Marshal(request{
		Inputs:     text,
		Parameters: parameters{CandidateLabels: candidateLabels},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling classifier: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading classifier response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &driven.APIError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("classifier returned %s", bytes.TrimSpace(data)),
		}
	}

	preds, err := decodePredictions(data)
	if err != nil {
		return nil, err
	}

	slog.Debug("classifier call", "endpoint", c.endpoint, "predictions", len(preds))
	return preds, nil
}

// decodePredictions accepts either response shape and sorts by score descending.
func decodePredictions(data []byte) ([]driven.Prediction, error) {
	var preds []driven.Prediction

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []labelScore
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decoding classifier response: %w", err)
		}
		for _, ls := range list {
			preds = append(preds, driven.Prediction{Label: ls.Label, Score: ls.Score})
		}
	} else {
		var ranked rankedResponse
		if err := json.Unmarshal(trimmed, &ranked); err != nil {
			return nil, fmt.Errorf("decoding classifier response: %w", err)
		}
		if len(ranked.Labels) != len(ranked.Scores) {
			return nil, fmt.Errorf("classifier response has %d labels but %d scores",
				len(ranked.Labels), len(ranked.Scores))
		}
		for i, label := range ranked.Labels {
			preds = append(preds, driven.Prediction{Label: label, Score: ranked.Scores[i]})
		}
	}

	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Score > preds[j].Score
	})

	return preds, nil
}
