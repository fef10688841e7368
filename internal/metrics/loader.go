package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/youngfessy/seo-keyword-analysis-tool/internal/model"
)

// LoadDir reads every CSV and XLSX file in a vendor-export directory and
// builds a metrics snapshot. Duplicate keywords across files resolve by
// first-seen precedence. A missing directory or an unreadable file is a
// degraded-but-functional condition: the loader warns and continues, and
// an empty snapshot simply routes every keyword through heuristic
// estimation.
func LoadDir(dir string, brandTerms []string) *Snapshot {
	log := zap.L().With(zap.String("component", "metrics"))

	entries := make(map[string]model.KeywordMetrics)
	if dir == "" {
		return NewSnapshot(entries, brandTerms)
	}

	paths, err := listDatasetFiles(dir)
	if err != nil {
		log.Warn("metrics dataset unavailable, falling back to estimates", zap.String("dir", dir), zap.Error(err))
		return NewSnapshot(entries, brandTerms)
	}
	if len(paths) == 0 {
		log.Warn("no metrics dataset files found, falling back to estimates", zap.String("dir", dir))
	}

	for _, path := range paths {
		rows, err := readRows(path)
		if err != nil {
			log.Warn("skipping unreadable dataset file", zap.String("file", path), zap.Error(err))
			continue
		}
		added := mergeRows(entries, rows)
		log.Info("loaded metrics dataset file",
			zap.String("file", filepath.Base(path)),
			zap.Int("keywords", added),
		)
	}

	log.Info("metrics snapshot built", zap.Int("keywords", len(entries)))
	return NewSnapshot(entries, brandTerms)
}

func listDatasetFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "metrics: stat %s", dir)
	}
	if !info.IsDir() {
		return nil, eris.Errorf("metrics: %s is not a directory", dir)
	}

	var paths []string
	for _, pattern := range []string{"*.csv", "*.xlsx"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, eris.Wrapf(err, "metrics: glob %s", pattern)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

func readRows(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSXRows(path)
	}
	return readCSVRows(path)
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "metrics: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // vendor exports have ragged rows
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "metrics: read csv %s", path)
	}
	return rows, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "metrics: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("metrics: %s has no sheets", path)
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// vendor column synonyms, matched case-insensitively against the header row.
var columnAliases = map[string][]string{
	"keyword":    {"keyword", "query"},
	"volume":     {"volume", "search volume"},
	"difficulty": {"difficulty", "kd", "keyword difficulty"},
	"cpc":        {"cpc", "average cpc"},
	"serp":       {"serp features"},
}

// mergeRows parses header-indexed rows into the entry map, first-seen
// precedence. Returns the number of new keywords added.
func mergeRows(entries map[string]model.KeywordMetrics, rows [][]string) int {
	if len(rows) < 2 {
		return 0
	}

	idx := headerIndex(rows[0])
	kwCol, ok := idx["keyword"]
	if !ok {
		return 0
	}

	added := 0
	for _, row := range rows[1:] {
		if kwCol >= len(row) {
			continue
		}
		key := model.FoldKey(row[kwCol])
		if key == "" {
			continue
		}
		if _, exists := entries[key]; exists {
			continue
		}

		m := model.KeywordMetrics{
			SearchVolume: cellInt(row, idx, "volume"),
			Difficulty:   clampDifficulty(int(cellInt(row, idx, "difficulty"))),
			CostPerClick: cellFloat(row, idx, "cpc"),
			SerpFeatures: cellString(row, idx, "serp"),
		}
		entries[key] = m
		added++
	}
	return added
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for field, aliases := range columnAliases {
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

func cellString(row []string, idx map[string]int, field string) string {
	i, ok := idx[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// cellInt parses an integer cell leniently: thousands separators are
// stripped and unparseable values become 0, mirroring how vendor exports
// mix formats.
func cellInt(row []string, idx map[string]int, field string) int64 {
	raw := strings.ReplaceAll(cellString(row, idx, field), ",", "")
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int64(f)
}

func cellFloat(row []string, idx map[string]int, field string) float64 {
	raw := strings.ReplaceAll(cellString(row, idx, field), ",", "")
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func clampDifficulty(d int) int {
	if d < 0 {
		return 0
	}
	if d > 100 {
		return 100
	}
	return d
}
