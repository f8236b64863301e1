// Package sources fetches source tables from the web.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reallyasi9/weeklypicks/internal/table"
)

// Connector fetches one table.
type Connector interface {
	Fetch(ctx context.Context) (table.Table, error)
}

// Source names a sheet and where its contents come from.
type Source struct {
	// Sheet is the name the fetched table is stored under.
	Sheet string
	URL   string
	// TableID selects one table on an HTML page. Empty means the first table.
	TableID string
}

func (s Source) String() string {
	if s.TableID == "" {
		return fmt.Sprintf("%s=%s", s.Sheet, s.URL)
	}
	return fmt.Sprintf("%s=%s#%s", s.Sheet, s.URL, s.TableID)
}

// ParseSource parses "sheet=URL[#tableID]".
func ParseSource(s string) (Source, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Source{}, fmt.Errorf("ParseSource: expected sheet=URL, got '%s'", s)
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Source{}, fmt.Errorf("ParseSource: bad URL in '%s': %w", s, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Source{}, fmt.Errorf("ParseSource: URL in '%s' must be http or https", s)
	}
	id := u.Fragment
	u.Fragment = ""
	u.RawFragment = ""
	return Source{Sheet: name, URL: u.String(), TableID: id}, nil
}

// DefaultClient is used by connectors that are not given a client.
var DefaultClient = &http.Client{Timeout: 30 * time.Second}

// NewConnector picks the connector for a source: CSV for URLs ending in .csv, HTML tables otherwise.
func NewConnector(s Source, client *http.Client) Connector {
	if strings.HasSuffix(strings.ToLower(s.URL), ".csv") {
		return &CSV{Name: s.Sheet, URL: s.URL, Client: client}
	}
	return &HTMLTable{Name: s.Sheet, URL: s.URL, TableID: s.TableID, Client: client}
}

const userAgent = "weeklypicks/1.0 (+https://github.com/reallyasi9/weeklypicks)"

func request(ctx context.Context, client *http.Client, u string) (io.ReadCloser, error) {
	if client == nil {
		client = DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status from '%s': %s", u, resp.Status)
	}
	return resp.Body, nil
}
