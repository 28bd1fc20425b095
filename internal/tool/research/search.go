package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxCount = 10

// Credentials for the Google Custom Search JSON API.
type Credentials struct {
	APIKey   string
	EngineID string
}

// Configured reports whether both values are present and not placeholders.
func (c Credentials) Configured() bool {
	return c.APIKey != "" && c.EngineID != "" && !strings.Contains(c.APIKey, "YOUR_")
}

type SearchRequest struct {
	Query string
	Count int
	Start int
}

type Item struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

type SearchResponse struct {
	Query    string
	Start    int
	Items    []Item
	Repeated bool
}

const repeatWarning = "[System Warning]: this exact search (query, count, page) was already run. Change the keywords or parameters instead of repeating it."

// String renders results as a markdown list.
func (r *SearchResponse) String() string {
	var b strings.Builder
	if r.Repeated {
		b.WriteString(repeatWarning)
		b.WriteString("\n\n")
	}
	if len(r.Items) == 0 {
		fmt.Fprintf(&b, "No results for '%s' (start %d).", r.Query, r.Start)
		return b.String()
	}
	fmt.Fprintf(&b, "Search results ('%s', start %d, count %d):\n", r.Query, r.Start, len(r.Items))
	for _, it := range r.Items {
		fmt.Fprintf(&b, "- **%s**\n  %s\n  Link: %s\n\n", orDefault(it.Title, "(untitled)"), orDefault(it.Snippet, "(no snippet)"), orDefault(it.Link, "#"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// SearchTool queries the Google Custom Search API.
type SearchTool struct {
	client       *http.Client
	endpoint     string
	creds        Credentials
	defaultCount int
}

// NewSearchTool creates a SearchTool. client should carry the retrying
// transport so 429s are absorbed.
func NewSearchTool(client *http.Client, endpoint string, creds Credentials, defaultCount int) *SearchTool {
	if client == nil {
		client = http.DefaultClient
	}
	return &SearchTool{
		client:       client,
		endpoint:     endpoint,
		creds:        creds,
		defaultCount: defaultCount,
	}
}

// Configured reports whether the tool can run searches.
func (t *SearchTool) Configured() bool {
	return t.creds.Configured()
}

// Run executes req. history is the calling session's search history; a
// repeated search still runs but is flagged in the response.
func (t *SearchTool) Run(ctx context.Context, history *History, req *SearchRequest) (*SearchResponse, error) {
	if !t.Configured() {
		return nil, ErrNotConfigured
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	count := req.Count
	if count == 0 {
		count = t.defaultCount
	}
	count = min(max(count, 1), maxCount)
	start := max(req.Start, 1)

	repeated := false
	if history != nil {
		repeated = history.Record(query, count, start)
	}

	params := url.Values{}
	params.Set("key", t.creds.APIKey)
	params.Set("cx", t.creds.EngineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(count))
	params.Set("start", strconv.Itoa(start))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", redactKey(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	var payload struct {
		Items []Item `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return &SearchResponse{
		Query:    query,
		Start:    start,
		Items:    payload.Items,
		Repeated: repeated,
	}, nil
}

// redactKey removes the API key from the URL a transport error carries.
// The error text ends up in the conversation and the logs.
func redactKey(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	u, perr := url.Parse(urlErr.URL)
	if perr != nil {
		urlErr.URL = "(search endpoint)"
		return err
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	urlErr.URL = u.String()
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
