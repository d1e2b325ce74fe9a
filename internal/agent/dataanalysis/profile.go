package dataanalysis

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Dataset is a loaded tabular dataset with string-typed cells
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// NumericStats summarizes a numeric column
type NumericStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std"`
}

// ValueCount pairs a categorical value with its frequency
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalStats summarizes a non-numeric column
type CategoricalStats struct {
	Unique    int          `json:"unique"`
	TopValues []ValueCount `json:"top_values"`
}

// Profile describes the structure and quality of a dataset
type Profile struct {
	Rows             int                         `json:"rows"`
	Columns          int                         `json:"columns"`
	ColumnNames      []string                    `json:"column_names"`
	Dtypes           map[string]string           `json:"dtypes"`
	Missing          map[string]int              `json:"missing"`
	MissingPct       map[string]float64          `json:"missing_pct"`
	NumericStats     map[string]NumericStats     `json:"numeric_stats,omitempty"`
	CategoricalStats map[string]CategoricalStats `json:"categorical_stats,omitempty"`
	Sample           []map[string]string         `json:"sample"`
}

const (
	sampleRows         = 5
	maxCategoricalCols = 10
	topValueCount      = 5
)

// LoadDataset reads a CSV or JSON (array of objects) file into a Dataset
func LoadDataset(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".json":
		return loadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .csv or .json)", filepath.Ext(path))
	}
}

func loadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty dataset: %s", path)
	}

	columns := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		// Pad short rows so every row has a cell per column.
		row := make([]string, len(columns))
		copy(row, record)
		rows = append(rows, row)
	}

	return &Dataset{Columns: columns, Rows: rows}, nil
}

func loadJSON(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("failed to parse json (expected array of objects): %w", err)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("empty dataset: %s", path)
	}

	// Collect the union of keys in first-seen order.
	var columns []string
	seen := map[string]bool{}
	for _, obj := range objects {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	rows := make([][]string, 0, len(objects))
	for _, obj := range objects {
		row := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := obj[col]; ok && v != nil {
				row[i] = stringifyValue(v)
			}
		}
		rows = append(rows, row)
	}

	return &Dataset{Columns: columns, Rows: rows}, nil
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, _ := json.Marshal(val)
		return string(data)
	}
}

// BuildProfile computes a structural and statistical profile of ds
func BuildProfile(ds *Dataset) *Profile {
	p := &Profile{
		Rows:             len(ds.Rows),
		Columns:          len(ds.Columns),
		ColumnNames:      ds.Columns,
		Dtypes:           make(map[string]string, len(ds.Columns)),
		Missing:          make(map[string]int, len(ds.Columns)),
		MissingPct:       make(map[string]float64, len(ds.Columns)),
		NumericStats:     make(map[string]NumericStats),
		CategoricalStats: make(map[string]CategoricalStats),
	}

	categoricalCols := 0
	for i, col := range ds.Columns {
		values := columnValues(ds, i)

		missing := len(ds.Rows) - len(values)
		p.Missing[col] = missing
		if len(ds.Rows) > 0 {
			p.MissingPct[col] = math.Round(float64(missing)/float64(len(ds.Rows))*10000) / 100
		}

		dtype := inferType(values)
		p.Dtypes[col] = dtype

		switch dtype {
		case "numeric":
			p.NumericStats[col] = numericStats(values)
		case "string", "bool":
			if categoricalCols < maxCategoricalCols {
				p.CategoricalStats[col] = categoricalStats(values)
				categoricalCols++
			}
		}
	}

	limit := sampleRows
	if len(ds.Rows) < limit {
		limit = len(ds.Rows)
	}
	for _, row := range ds.Rows[:limit] {
		sample := make(map[string]string, len(ds.Columns))
		for i, col := range ds.Columns {
			sample[col] = row[i]
		}
		p.Sample = append(p.Sample, sample)
	}

	return p
}

// columnValues returns the non-empty values of column i
func columnValues(ds *Dataset, i int) []string {
	values := make([]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if i < len(row) && strings.TrimSpace(row[i]) != "" {
			values = append(values, row[i])
		}
	}
	return values
}

// inferType classifies a column as numeric, bool, timestamp, or string
// based on its non-empty values.
func inferType(values []string) string {
	if len(values) == 0 {
		return "string"
	}

	numeric, boolean, timestamp := true, true, true
	for _, v := range values {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
		}
		lower := strings.ToLower(v)
		if lower != "true" && lower != "false" {
			boolean = false
		}
		if !isTimestamp(v) {
			timestamp = false
		}
		if !numeric && !boolean && !timestamp {
			return "string"
		}
	}

	switch {
	case boolean:
		return "bool"
	case numeric:
		return "numeric"
	case timestamp:
		return "timestamp"
	default:
		return "string"
	}
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

func isTimestamp(v string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func numericStats(values []string) NumericStats {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return NumericStats{}
	}

	minV, maxV, sum := nums[0], nums[0], 0.0
	for _, n := range nums {
		if n < minV {
			minV = n
		}
		if n > maxV {
			maxV = n
		}
		sum += n
	}
	mean := sum / float64(len(nums))

	variance := 0.0
	for _, n := range nums {
		variance += (n - mean) * (n - mean)
	}
	variance /= float64(len(nums))

	return NumericStats{
		Count:  len(nums),
		Mean:   mean,
		Min:    minV,
		Max:    maxV,
		StdDev: math.Sqrt(variance),
	}
}

func categoricalStats(values []string) CategoricalStats {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}

	top := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		top = append(top, ValueCount{Value: v, Count: c})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Value < top[j].Value
	})
	if len(top) > topValueCount {
		top = top[:topValueCount]
	}

	return CategoricalStats{
		Unique:    len(counts),
		TopValues: top,
	}
}
