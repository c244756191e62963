package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DataPoint is one calendar year of historical market data, in percent.
type DataPoint struct {
	Year         int             `yaml:"year" json:"year"`
	ReturnPct    decimal.Decimal `yaml:"return_pct" json:"returnPct"`
	InflationPct decimal.Decimal `yaml:"inflation_pct" json:"inflationPct"`
}

// DataSet is a named, year-ordered historical series.
type DataSet struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Source      string      `yaml:"source" json:"source"`
	Points      []DataPoint `yaml:"points" json:"points"`
}

// YearRange returns the first and last year in the data set.
func (ds *DataSet) YearRange() (int, int) {
	if len(ds.Points) == 0 {
		return 0, 0
	}
	return ds.Points[0].Year, ds.Points[len(ds.Points)-1].Year
}

func (ds *DataSet) normalize() error {
	if len(ds.Points) == 0 {
		return fmt.Errorf("data set %q has no data points", ds.Name)
	}
	sort.Slice(ds.Points, func(i, j int) bool { return ds.Points[i].Year < ds.Points[j].Year })
	return nil
}

// LoadDataSet reads a data set from a .csv or .yaml/.yml file.
func LoadDataSet(path string) (*DataSet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported market data file %s: expected .csv, .yaml or .yml", path)
	}
}

// LoadCSV reads a data set from a CSV file with a header row and the columns
// year, return, inflation. Rows that do not parse are skipped.
func LoadCSV(path string) (*DataSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	ds, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	ds.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ds.Source = path
	return ds, nil
}

// ReadCSV parses CSV market data from r.
func ReadCSV(r io.Reader) (*DataSet, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("invalid CSV format: expected year,return,inflation columns")
	}

	ds := &DataSet{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < 3 {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			continue
		}
		ret, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			continue
		}
		infl, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil {
			continue
		}
		ds.Points = append(ds.Points, DataPoint{Year: year, ReturnPct: ret, InflationPct: infl})
	}
	if err := ds.normalize(); err != nil {
		return nil, err
	}
	return ds, nil
}

// LoadYAML reads a data set from a YAML file.
func LoadYAML(path string) (*DataSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	var ds DataSet
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}
	if ds.Name == "" {
		ds.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := ds.normalize(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Historical replays rolling windows of a data set. Window i starts at the
// i-th year of the data; when the data is shorter than the projection the
// window wraps around to the start.
type Historical struct {
	data  *DataSet
	years int
}

// NewHistorical creates a rolling-window provider over ds for a projection
// of the given length.
func NewHistorical(ds *DataSet, years int) (*Historical, error) {
	if ds == nil || len(ds.Points) == 0 {
		return nil, fmt.Errorf("historical provider requires a non-empty data set")
	}
	if years <= 0 {
		return nil, fmt.Errorf("historical provider requires a positive projection length, got %d", years)
	}
	return &Historical{data: ds, years: years}, nil
}

func (h *Historical) Name() string { return "historical:" + h.data.Name }

// Runs is the number of distinct windows.
func (h *Historical) Runs() int {
	n := len(h.data.Points)
	if n >= h.years {
		return n - h.years + 1
	}
	return n
}

func (h *Historical) Path(i int) (*Series, error) {
	if err := checkIndex(h, i); err != nil {
		return nil, err
	}
	n := len(h.data.Points)
	s := &Series{
		Name:      fmt.Sprintf("%s from %d", h.data.Name, h.data.Points[i].Year),
		Returns:   make([]decimal.Decimal, h.years),
		Inflation: make([]decimal.Decimal, h.years),
	}
	for k := 0; k < h.years; k++ {
		p := h.data.Points[(i+k)%n]
		s.Returns[k] = p.ReturnPct
		s.Inflation[k] = p.InflationPct
	}
	return s, nil
}
