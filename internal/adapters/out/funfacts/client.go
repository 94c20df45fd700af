// Package funfacts fetches dog trivia from the Dog API.
package funfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tracking/internal/core/ports"

	"github.com/pkg/errors"
)

const DefaultURL = "https://dogapi.dog/api/v1/facts"

var ErrNoFact = errors.New("fun fact api returned no fact")

type Client struct {
	url   string
	httpc *http.Client
}

var _ ports.FunFactProvider = (*Client)(nil)

func New(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url: url,
		httpc: &http.Client{
			Timeout: timeout,
		},
	}
}

// factResp covers both the {"fact": "..."} and the {"facts": ["..."]} shapes.
type factResp struct {
	Fact  string   `json:"fact"`
	Facts []string `json:"facts"`
}

func (c *Client) FunFact(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", errors.Wrap(err, "new request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("fun fact api http %d", resp.StatusCode)
	}

	var body factResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "decode")
	}

	if fact := strings.TrimSpace(body.Fact); fact != "" {
		return fact, nil
	}
	for _, fact := range body.Facts {
		if fact = strings.TrimSpace(fact); fact != "" {
			return fact, nil
		}
	}

	return "", ErrNoFact
}
