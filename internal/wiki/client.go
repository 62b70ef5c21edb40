package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"

	"wikipatrol/internal/monitor"
)

// TransportError wraps a network or decode failure against the wiki API.
// The pipeline does not retry; the caller decides whether to rerun later.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks to a single wiki's api.php endpoint.
type Client struct {
	cfg     Config
	http    *http.Client
	encoder *schema.Encoder
}

var _ monitor.Client = (*Client)(nil)

// NewClient creates a client for the configured wiki.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		encoder: schema.NewEncoder(),
	}
}

type recentChangesParams struct {
	Action string `schema:"action"`
	List   string `schema:"list"`
	Format string `schema:"format"`
	Limit  int    `schema:"rclimit"`
	Props  string `schema:"rcprop"`
}

type revisionsParams struct {
	Action  string `schema:"action"`
	Format  string `schema:"format"`
	Prop    string `schema:"prop"`
	Titles  string `schema:"titles"`
	StartID int64  `schema:"rvstartid"`
	EndID   int64  `schema:"rvendid"`
	Dir     string `schema:"rvdir"`
	Props   string `schema:"rvprop"`
}

// RecentChanges fetches one batch of the wiki's recent-changes feed.
func (c *Client) RecentChanges(ctx context.Context) ([]monitor.ChangeRecord, error) {
	params := recentChangesParams{
		Action: "query",
		List:   "recentchanges",
		Format: "json",
		Limit:  c.cfg.Limit,
		Props:  "user|userid|comment|title|ids|sizes|flags|timestamp|loginfo",
	}

	var resp queryResponse
	if err := c.get(ctx, "fetching recent changes", params, &resp); err != nil {
		return nil, err
	}

	records := make([]monitor.ChangeRecord, 0, len(resp.Query.RecentChanges))
	for _, rc := range resp.Query.RecentChanges {
		records = append(records, rc.toRecord())
	}
	return records, nil
}

// ContentPair fetches the old and new bodies of a qualifying edit, in
// (old, new) order. A response without exactly two revisions is a
// MalformedRecordError for that one edit.
func (c *Client) ContentPair(ctx context.Context, title string, oldID, newID int64) (*monitor.RevisionContent, *monitor.RevisionContent, error) {
	params := revisionsParams{
		Action:  "query",
		Format:  "json",
		Prop:    "revisions",
		Titles:  title,
		StartID: oldID,
		EndID:   newID,
		Dir:     "newer",
		Props:   "ids|timestamp|user|comment|content",
	}

	var resp queryResponse
	if err := c.get(ctx, "fetching revisions", params, &resp); err != nil {
		return nil, nil, err
	}

	// One title was asked for, so the pages map holds one entry.
	for _, page := range resp.Query.Pages {
		if len(page.Revisions) != 2 {
			return nil, nil, &monitor.MalformedRecordError{
				Title:  title,
				Reason: fmt.Sprintf("expected 2 revisions, got %d", len(page.Revisions)),
			}
		}
		before := page.Revisions[0].toContent()
		after := page.Revisions[1].toContent()
		return &before, &after, nil
	}
	return nil, nil, &monitor.MalformedRecordError{Title: title, Reason: "page missing from response"}
}

func (c *Client) get(ctx context.Context, op string, params any, out any) error {
	values := url.Values{}
	if err := c.encoder.Encode(params, values); err != nil {
		return &TransportError{Op: op, URL: c.cfg.APIURL, Err: fmt.Errorf("encoding query: %w", err)}
	}
	reqURL := c.cfg.APIURL + "?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &TransportError{Op: op, URL: reqURL, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &TransportError{Op: op, URL: reqURL, Err: fmt.Errorf("server response: %s", resp.Status)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, URL: reqURL, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
