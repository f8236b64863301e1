package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/reallyasi9/weeklypicks/internal/table"
)

// CSV reads a comma-separated file whose first record is the header.
type CSV struct {
	Name   string
	URL    string
	Client *http.Client
}

func (c *CSV) Fetch(ctx context.Context) (table.Table, error) {
	rc, err := request(ctx, c.Client, c.URL)
	if err != nil {
		return table.Table{}, fmt.Errorf("Fetch: %w", err)
	}
	defer rc.Close()

	csvr := csv.NewReader(rc)
	csvr.FieldsPerRecord = -1
	csvr.TrimLeadingSpace = true
	records, err := csvr.ReadAll()
	if err != nil {
		return table.Table{}, fmt.Errorf("Fetch: error reading '%s': %w", c.URL, err)
	}
	if len(records) == 0 {
		return table.Table{}, fmt.Errorf("Fetch: '%s' has no header", c.URL)
	}
	return table.FromRecords(c.Name, records), nil
}
