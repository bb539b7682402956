// Package importer pulls the country dimension and the population fact rows
// from the UNHCR public statistics API and loads them through the stores.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the UNHCR population statistics API.
const DefaultBaseURL = "https://api.unhcr.org"

// The API paginates; a huge limit fetches everything in one page, which is how
// the upstream dataset is meant to be mirrored.
const pageLimit = "90000000000"

// FlexInt tolerates the API's habit of sending "-" or other strings where a
// count belongs; any non-numeric value coerces to 0.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}
	// String or null payloads count as no data.
	*f = 0
	return nil
}

// CountryItem is one entry of the /countries/ endpoint.
type CountryItem struct {
	MajorArea string `json:"majorArea"`
	Region    string `json:"region"`
	Name      string `json:"name"`
	ISO       string `json:"iso"`
	ISO2      string `json:"iso2"`
	Code      string `json:"code"`
}

// PopulationItem is one entry of the /population/ endpoint: every tracked
// count for one (origin, arrival, year) triple.
type PopulationItem struct {
	OriginISO    string  `json:"coo_iso"`
	ArrivalISO   string  `json:"coa_iso"`
	Refugees     FlexInt `json:"refugees"`
	AsylumSeeker FlexInt `json:"asylum_seekers"`
	Stateless    FlexInt `json:"stateless"`
	IDPs         FlexInt `json:"idps"`
	OOC          FlexInt `json:"ooc"`
	OIP          FlexInt `json:"oip"`
	Year         int32   `json:"year"`
}

// Client talks to the UNHCR API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures the API client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient constructs a UNHCR API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Countries fetches the full country list.
func (c *Client) Countries(ctx context.Context) ([]CountryItem, error) {
	q := url.Values{"limit": {pageLimit}}
	var items []CountryItem
	if err := c.get(ctx, "/population/v1/countries/", q, &items); err != nil {
		return nil, fmt.Errorf("fetch countries: %w", err)
	}
	return items, nil
}

// Population fetches the fact rows for the given origin countries arriving
// anywhere in arrivalISOs. Both lists are comma-joined ISO-3 codes.
func (c *Client) Population(ctx context.Context, originISOs, arrivalISOs []string) ([]PopulationItem, error) {
	q := url.Values{
		"limit": {pageLimit},
		"coo":   {strings.Join(originISOs, ",")},
		"coa":   {strings.Join(arrivalISOs, ",")},
	}
	var items []PopulationItem
	if err := c.get(ctx, "/population/v1/population/", q, &items); err != nil {
		return nil, fmt.Errorf("fetch population: %w", err)
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, items any) error {
	u := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var envelope struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Items, items); err != nil {
		return fmt.Errorf("decode items: %w", err)
	}
	return nil
}
