// Package holidays reads public holiday calendars from the Nager.Date API.
package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tracking/internal/core/ports"

	"github.com/pkg/errors"
)

const DefaultBaseURL = "https://date.nager.at"

type Client struct {
	baseURL string
	httpc   *http.Client
}

var _ ports.HolidayProvider = (*Client)(nil)

// New creates a client. Deadlines come from the caller's context; timeout
// only bounds a request issued without one.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Timeout: timeout,
		},
	}
}

type holidayResp struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// PublicHolidays calls GET /api/v3/PublicHolidays/{year}/{countryCode}.
func (c *Client) PublicHolidays(ctx context.Context, year int, countryCode string) ([]ports.Holiday, error) {
	endpoint, err := url.JoinPath(c.baseURL, "api", "v3", "PublicHolidays", strconv.Itoa(year), countryCode)
	if err != nil {
		return nil, errors.Wrap(err, "build holidays url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("holidays api http %d", resp.StatusCode)
	}

	var body []holidayResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode")
	}

	holidays := make([]ports.Holiday, 0, len(body))
	for _, h := range body {
		date, err := time.ParseInLocation(time.DateOnly, h.Date, time.UTC)
		if err != nil {
			return nil, errors.Wrapf(err, "parse holiday date %q", h.Date)
		}
		holidays = append(holidays, ports.Holiday{
			Date:      date,
			LocalName: h.LocalName,
			Name:      h.Name,
		})
	}

	return holidays, nil
}
