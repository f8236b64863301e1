package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/reallyasi9/weeklypicks/internal/table"
	"golang.org/x/net/html"
)

// HTMLTable reads one <table> from a web page.
// Tables hidden inside HTML comments, as some stats sites serve them, are found too.
type HTMLTable struct {
	Name    string
	URL     string
	TableID string
	Client  *http.Client
}

func (h *HTMLTable) Fetch(ctx context.Context) (table.Table, error) {
	rc, err := request(ctx, h.Client, h.URL)
	if err != nil {
		return table.Table{}, fmt.Errorf("Fetch: %w", err)
	}
	defer rc.Close()

	doc, err := goquery.NewDocumentFromReader(rc)
	if err != nil {
		return table.Table{}, fmt.Errorf("Fetch: failed to parse '%s': %w", h.URL, err)
	}
	sel, err := findTable(doc, h.TableID)
	if err != nil {
		return table.Table{}, fmt.Errorf("Fetch: '%s': %w", h.URL, err)
	}
	return ParseTable(h.Name, sel), nil
}

func tableSelector(id string) string {
	if id == "" {
		return "table"
	}
	return "table#" + id
}

// findTable looks for the table in the page, then in the page's comments.
func findTable(doc *goquery.Document, id string) (*goquery.Selection, error) {
	if sel := doc.Find(tableSelector(id)).First(); sel.Length() != 0 {
		return sel, nil
	}
	for _, c := range comments(doc.Selection) {
		if !strings.Contains(c, "<table") {
			continue
		}
		inner, err := goquery.NewDocumentFromReader(strings.NewReader(c))
		if err != nil {
			continue
		}
		if sel := inner.Find(tableSelector(id)).First(); sel.Length() != 0 {
			return sel, nil
		}
	}
	if id == "" {
		return nil, fmt.Errorf("no table found")
	}
	return nil, fmt.Errorf("no table with id '%s' found", id)
}

func comments(sel *goquery.Selection) []string {
	out := make([]string, 0)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			out = append(out, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}

// ParseTable converts a <table> selection to a table.
// With several header rows only the last one names the columns. Body rows that repeat the header are skipped.
func ParseTable(name string, sel *goquery.Selection) table.Table {
	records := make([][]string, 0)

	header := sel.Find("thead tr").Last()
	bodyRows := sel.Find("tbody tr")
	if header.Length() == 0 {
		header = sel.Find("tr").First()
		bodyRows = sel.Find("tr").Slice(1, goquery.ToEnd)
	}
	records = append(records, cells(header))

	bodyRows.Each(func(i int, tr *goquery.Selection) {
		if tr.HasClass("thead") || tr.HasClass("over_header") {
			return
		}
		records = append(records, cells(tr))
	})
	return table.FromRecords(name, records)
}

func cells(tr *goquery.Selection) []string {
	out := make([]string, 0)
	tr.Find("th, td").Each(func(i int, c *goquery.Selection) {
		out = append(out, strings.TrimSpace(c.Text()))
	})
	return out
}
