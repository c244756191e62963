package market

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultDataSet is used by historical mode when no data file is given.
const DefaultDataSet = "sp500"

// S&P 500 total return and CPI-U December-to-December change, 1972-2024,
// rounded to one decimal.
var sp500Returns = []float64{
	19.0, -14.7, -26.5, 37.2, 23.8, -7.2, 6.6, 18.4, 32.4, -4.9, // 1972-1981
	21.4, 22.5, 6.3, 32.2, 18.5, 5.2, 16.8, 31.5, -3.1, 30.5, // 1982-1991
	7.6, 10.1, 1.3, 37.6, 23.0, 33.4, 28.6, 21.0, -9.1, -11.9, // 1992-2001
	-22.1, 28.7, 10.9, 4.9, 15.8, 5.5, -37.0, 26.5, 15.1, 2.1, // 2002-2011
	16.0, 32.4, 13.7, 1.4, 12.0, 21.8, -4.4, 31.5, 18.4, 28.7, // 2012-2021
	-18.1, 26.3, 25.0, // 2022-2024
}

var cpiInflation = []float64{
	3.4, 8.7, 12.3, 6.9, 4.9, 6.7, 9.0, 13.3, 12.5, 8.9,
	3.8, 3.8, 3.9, 3.8, 1.1, 4.4, 4.4, 4.6, 6.1, 3.1,
	2.9, 2.7, 2.7, 2.5, 3.3, 1.7, 1.6, 2.7, 3.4, 1.6,
	2.4, 1.9, 3.3, 3.4, 2.5, 4.1, 0.1, 2.7, 1.5, 3.0,
	1.7, 1.5, 0.8, 0.7, 2.1, 2.1, 1.9, 2.3, 1.4, 7.0,
	6.5, 3.4, 2.9,
}

var builtinDataSets = map[string]func() *DataSet{
	"sp500": func() *DataSet {
		ds := &DataSet{
			Name:        "sp500",
			Description: "S&P 500 total return with CPI-U inflation",
			Source:      "built-in",
		}
		for i := range sp500Returns {
			ds.Points = append(ds.Points, DataPoint{
				Year:         1972 + i,
				ReturnPct:    decimal.NewFromFloat(sp500Returns[i]),
				InflationPct: decimal.NewFromFloat(cpiInflation[i]),
			})
		}
		return ds
	},
}

// BuiltinDataSet returns a copy of a named built-in data set.
func BuiltinDataSet(name string) (*DataSet, error) {
	if name == "" {
		name = DefaultDataSet
	}
	build, ok := builtinDataSets[name]
	if !ok {
		return nil, fmt.Errorf("unknown built-in data set %q (available: %v)", name, BuiltinDataSetNames())
	}
	return build(), nil
}

// BuiltinDataSetNames lists the built-in data sets.
func BuiltinDataSetNames() []string {
	names := make([]string, 0, len(builtinDataSets))
	for n := range builtinDataSets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
