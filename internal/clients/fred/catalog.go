package fred

// Series describes a well-known FRED series.
type Series struct {
	ID        string `json:"series_id"`
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	Category  string `json:"category"`
}

// Catalog lists the key series grouped by category, in presentation order.
var Catalog = []Series{
	{"GDP", "Gross Domestic Product", "quarterly", "gdp"},
	{"GDPC1", "Real GDP", "quarterly", "gdp"},
	{"A191RL1Q225SBEA", "Real GDP Growth Rate", "quarterly", "gdp"},

	{"CPIAUCSL", "Consumer Price Index", "monthly", "inflation"},
	{"CPILFESL", "Core CPI (ex Food & Energy)", "monthly", "inflation"},
	{"PCEPI", "PCE Price Index", "monthly", "inflation"},
	{"T5YIE", "5-Year Breakeven Inflation", "daily", "inflation"},

	{"UNRATE", "Unemployment Rate", "monthly", "employment"},
	{"PAYEMS", "Nonfarm Payrolls", "monthly", "employment"},
	{"ICSA", "Initial Jobless Claims", "weekly", "employment"},
	{"JTSJOL", "Job Openings (JOLTS)", "monthly", "employment"},

	{"FEDFUNDS", "Federal Funds Rate", "monthly", "rates"},
	{"DFF", "Fed Funds Effective Rate (Daily)", "daily", "rates"},
	{"DGS10", "10-Year Treasury Yield", "daily", "rates"},
	{"DGS2", "2-Year Treasury Yield", "daily", "rates"},
	{"T10Y2Y", "10Y-2Y Yield Spread", "daily", "rates"},
	{"T10Y3M", "10Y-3M Yield Spread", "daily", "rates"},

	{"M2SL", "M2 Money Supply", "monthly", "money"},
	{"WALCL", "Fed Balance Sheet", "weekly", "money"},

	{"UMCSENT", "Consumer Sentiment (UMich)", "monthly", "sentiment"},
	{"RSAFS", "Retail Sales", "monthly", "consumer"},
	{"PCE", "Personal Consumption Expenditures", "monthly", "consumer"},

	{"HOUST", "Housing Starts", "monthly", "housing"},
	{"CSUSHPINSA", "Case-Shiller Home Price Index", "monthly", "housing"},
	{"MORTGAGE30US", "30-Year Mortgage Rate", "weekly", "housing"},

	{"INDPRO", "Industrial Production", "monthly", "manufacturing"},
	{"DGORDER", "Durable Goods Orders", "monthly", "manufacturing"},
	{"BOPGSTB", "Trade Balance", "monthly", "trade"},
}

// DashboardSeries are the series shown on the economic dashboard.
var DashboardSeries = []string{"GDPC1", "CPIAUCSL", "UNRATE", "FEDFUNDS", "DGS10", "T10Y2Y", "M2SL", "UMCSENT"}

// Lookup returns the catalog entry for id.
func Lookup(id string) (Series, bool) {
	for _, s := range Catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Series{}, false
}

// InCategory returns the catalog entries of category, or all of them when
// category is empty.
func InCategory(category string) []Series {
	if category == "" {
		return Catalog
	}
	var out []Series
	for _, s := range Catalog {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}
