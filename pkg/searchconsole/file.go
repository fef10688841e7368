package searchconsole

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// FileSource reads a Search Console performance CSV export. It accepts
// both the UI export ("Top queries") and API-style ("query") headers, and
// percentage-formatted CTR cells.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

var csvColumnAliases = map[string][]string{
	"query":       {"query", "top queries", "keyword"},
	"clicks":      {"clicks"},
	"impressions": {"impressions"},
	"ctr":         {"ctr"},
	"position":    {"position", "average position"},
}

// Fetch parses the export. The date window in the request is ignored; the
// export already covers a fixed window chosen at download time.
func (fs *FileSource) Fetch(ctx context.Context, _ QueryRequest) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(fs.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "searchconsole: open %s", fs.Path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	raw, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "searchconsole: read csv %s", fs.Path)
	}
	if len(raw) < 1 {
		return nil, eris.Errorf("searchconsole: %s is empty", fs.Path)
	}

	idx := csvHeaderIndex(raw[0])
	queryCol, ok := idx["query"]
	if !ok {
		return nil, eris.Errorf("searchconsole: %s has no query column", fs.Path)
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, rec := range raw[1:] {
		if queryCol >= len(rec) {
			continue
		}
		rows = append(rows, Row{
			Query:       strings.TrimSpace(rec[queryCol]),
			Clicks:      csvInt(rec, idx, "clicks"),
			Impressions: csvInt(rec, idx, "impressions"),
			CTR:         csvCTR(rec, idx),
			Position:    csvFloat(rec, idx, "position"),
		})
	}
	return rows, nil
}

func csvHeaderIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for field, aliases := range csvColumnAliases {
			for _, alias := range aliases {
				if name == alias {
					if _, seen := idx[field]; !seen {
						idx[field] = i
					}
				}
			}
		}
	}
	return idx
}

func csvCell(rec []string, idx map[string]int, field string) string {
	i, ok := idx[field]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func csvInt(rec []string, idx map[string]int, field string) int64 {
	raw := strings.ReplaceAll(csvCell(rec, idx, field), ",", "")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func csvFloat(rec []string, idx map[string]int, field string) float64 {
	raw := strings.ReplaceAll(csvCell(rec, idx, field), ",", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

// csvCTR parses the CTR cell. UI exports write "3.5%"; API-style files
// write a fraction. Both come back as a fraction in [0,1].
func csvCTR(rec []string, idx map[string]int) float64 {
	raw := csvCell(rec, idx, "ctr")
	percent := strings.HasSuffix(raw, "%")
	raw = strings.TrimSuffix(raw, "%")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	if percent {
		return f / 100
	}
	return f
}
