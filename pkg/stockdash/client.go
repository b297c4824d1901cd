// Package stockdash is a Go client for the stock dashboard JSON API.
package stockdash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Client provides a Go SDK for interacting with the dashboard server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new dashboard API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Option is one entry of the symbol dropdown.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Figure is a chart specification as returned by the chart endpoint.
type Figure struct {
	Data []struct {
		Type string     `json:"type"`
		Mode string     `json:"mode"`
		Name string     `json:"name"`
		X    []string   `json:"x"`
		Y    []*float64 `json:"y"`
	} `json:"data"`
	Layout struct {
		Title struct {
			Text string `json:"text"`
		} `json:"title"`
	} `json:"layout"`
}

// ChartRequest mirrors the page inputs. A nil Symbols slice omits the
// parameter entirely; zero dates are sent as unset.
type ChartRequest struct {
	NClicks int
	Symbols []string
	Start   time.Time
	End     time.Time
}

// Bounds are the date picker limits.
type Bounds struct {
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
	EndDate string `json:"end_date"`
}

// Health is the liveness response.
type Health struct {
	OK      bool `json:"ok"`
	Symbols int  `json:"symbols"`
}

// Symbols retrieves the dropdown options.
func (c *Client) Symbols(ctx context.Context) ([]Option, error) {
	var out []Option
	if err := c.get(ctx, "/api/symbols", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Chart requests a chart for the given inputs.
func (c *Client) Chart(ctx context.Context, req ChartRequest) (*Figure, error) {
	q := url.Values{}
	q.Set("n_clicks", strconv.Itoa(req.NClicks))
	if req.Symbols != nil {
		q.Set("symbols", strings.Join(req.Symbols, ","))
	}
	if !req.Start.IsZero() {
		q.Set("start", req.Start.Format(dateLayout))
	}
	if !req.End.IsZero() {
		q.Set("end", req.End.Format(dateLayout))
	}

	var out Figure
	if err := c.get(ctx, "/api/chart", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bounds retrieves the date picker limits.
func (c *Client) Bounds(ctx context.Context) (*Bounds, error) {
	var out Bounds
	if err := c.get(ctx, "/api/bounds", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health retrieves the liveness status.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, "/healthz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return fmt.Errorf("GET %s: %s: %s", path, resp.Status, e.Error)
		}
		return fmt.Errorf("GET %s: %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
