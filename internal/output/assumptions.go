package output

// DefaultAssumptions lists modeling assumptions rendered when a result carries none.
var DefaultAssumptions = []string{
	"Federal tax: 2025 brackets, standard deduction and capital gains tables",
	"Social Security taxation thresholds are statutory and never indexed",
	"Required minimum distributions use the IRS Uniform Lifetime Table",
	"Ending balances are reported before the year's investment returns",
	"Rebalancing gains are taxed in the following year",
}
