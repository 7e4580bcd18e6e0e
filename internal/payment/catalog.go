package payment

import "github.com/shopspring/decimal"

// DefaultTable returns the gateway's price list.
func DefaultTable() *Table {
	return NewTable(catalog)
}

func usdc(amount string) decimal.Decimal {
	return decimal.RequireFromString(amount)
}

var catalog = []Endpoint{
	// SEC oracle
	{"sec/company", "SEC Company Profile", "Get company profile from SEC EDGAR", usdc("0.005")},
	{"sec/financials", "SEC XBRL Financials", "Get XBRL financial metrics with computed ratios", usdc("0.02")},
	{"sec/insiders", "SEC Insider Trading", "Get Form 4 insider trading with sentiment analysis", usdc("0.03")},
	{"sec/events", "SEC 8-K Events", "Get 8-K material events with classification", usdc("0.02")},
	{"sec/batch", "SEC Batch Query", "Batch query multiple tickers", usdc("0.05")},
	{"sec/13f", "SEC 13F Holdings", "Institutional holdings from 13F filings", usdc("0.02")},

	// Perp DEX
	{"perp/funding", "Perp Funding Rates", "Get cross-exchange funding rates", usdc("0.005")},
	{"perp/openinterest", "Perp Open Interest", "Get open interest across exchanges", usdc("0.005")},
	{"perp/arbitrage", "Perp Arbitrage Scanner", "Get funding rate arbitrage opportunities", usdc("0.01")},

	// Sanctions
	{"sanctions/address", "OFAC Address Screen", "Screen crypto address against OFAC sanctions list", usdc("0.01")},
	{"sanctions/name", "OFAC Name Screen", "Screen entity name against sanctions databases", usdc("0.01")},
	{"sanctions/batch", "OFAC Batch Screen", "Batch screen multiple addresses or names", usdc("0.05")},
	{"sanctions/country", "Sanctions by Country", "Get sanctioned entities by country code", usdc("0.005")},

	// Analysis
	{"analysis/earnings-arbitrage", "Earnings Arbitrage", "Analyze 8-K events for funding rate arbitrage", usdc("0.03")},
	{"analysis/insider-signal", "Insider Signal", "Get insider sentiment for perp positions", usdc("0.03")},
	{"analysis/wallet-compliance", "Wallet Compliance", "Check wallet address for sanctions compliance", usdc("0.02")},

	// Prediction markets
	{"prediction/markets", "Prediction Markets", "List active prediction markets (Polymarket + Kalshi)", usdc("0.005")},
	{"prediction/prices", "Prediction Prices", "Get current market prices and odds", usdc("0.005")},
	{"prediction/arbitrage", "Prediction Arbitrage", "Find cross-platform arbitrage opportunities", usdc("0.02")},
	{"prediction/event", "Prediction Event", "Get detailed event/market info", usdc("0.01")},

	// Streams
	{"ws/arbitrage", "Arbitrage Stream", "Live prediction-market arbitrage reports over WebSocket", usdc("0.02")},

	// Banks
	{"banks/search", "FDIC Bank Search", "Search FDIC-insured institutions", usdc("0.005")},
	{"banks/institution", "Bank Details", "Get bank details by FDIC certificate", usdc("0.01")},
	{"banks/financials", "Bank Financials", "Get bank financial metrics (call reports)", usdc("0.02")},
	{"banks/health", "Bank Health Score", "Computed bank health score and risk indicators", usdc("0.02")},
	{"banks/failures", "Bank Failures", "Recent bank failures and causes", usdc("0.005")},
	{"banks/at-risk", "At-Risk Banks", "Banks showing stress signals", usdc("0.03")},

	// FRED
	{"fred/series", "FRED Data Series", "Get FRED economic series data", usdc("0.003")},
	{"fred/indicators", "Economic Indicators", "Key economic indicators summary", usdc("0.005")},
	{"fred/dashboard", "FRED Dashboard", "Economic dashboard with multiple indicators", usdc("0.01")},
	{"fred/search", "FRED Search", "Search FRED series database", usdc("0.003")},

	// Treasury
	{"treasury/debt", "US National Debt", "US national debt levels and trends", usdc("0.002")},
	{"treasury/spending", "Federal Spending", "Federal spending by category", usdc("0.002")},
	{"treasury/revenue", "Federal Revenue", "Federal revenue collections", usdc("0.002")},
	{"treasury/auctions", "Treasury Auctions", "Treasury auction results and schedules", usdc("0.005")},
	{"treasury/dashboard", "Treasury Dashboard", "Fiscal health dashboard", usdc("0.01")},

	// Forex
	{"forex/rates", "Forex Rates", "Current exchange rates for 200+ currencies", usdc("0.002")},
	{"forex/convert", "Currency Convert", "Convert between currencies", usdc("0.002")},
	{"forex/historical", "Forex Historical", "Historical exchange rates", usdc("0.005")},

	// Crypto
	{"crypto/prices", "Crypto Prices", "Current prices for top cryptocurrencies", usdc("0.002")},
	{"crypto/markets", "Crypto Markets", "Crypto market data and rankings", usdc("0.002")},
	{"crypto/historical", "Crypto Historical", "Historical crypto prices", usdc("0.005")},

	// Stocks
	{"stocks/quote", "Stock Quote", "Real-time stock quotes", usdc("0.005")},
	{"stocks/historical", "Stock Historical", "Historical stock prices", usdc("0.01")},
	{"stocks/indices", "Market Indices", "Major market indices (S&P 500, Dow, Nasdaq)", usdc("0.005")},

	// BLS
	{"bls/employment", "BLS Employment", "US employment data (jobs, unemployment)", usdc("0.005")},
	{"bls/cpi", "Consumer Price Index", "Consumer Price Index (inflation)", usdc("0.005")},
	{"bls/series", "BLS Data Series", "Query specific BLS data series", usdc("0.005")},

	// Commodities
	{"commodities/prices", "Commodity Prices", "Commodity prices (gold, silver, oil)", usdc("0.005")},
	{"commodities/metals", "Precious Metals", "Precious metals prices and trends", usdc("0.005")},

	// Fundamentals
	{"fundamentals/profile", "Company Profile", "Company profile and overview", usdc("0.01")},
	{"fundamentals/ratios", "Financial Ratios", "Financial ratios (P/E, P/B, etc.)", usdc("0.02")},
	{"fundamentals/metrics", "Key Metrics", "Key financial metrics", usdc("0.02")},

	// Calendars
	{"calendar/earnings", "Earnings Calendar", "Earnings calendar and estimates", usdc("0.005")},
	{"calendar/dividends", "Dividends Calendar", "Dividend calendar (ex-dates, yields)", usdc("0.005")},
	{"calendar/ipo", "IPO Calendar", "IPO calendar", usdc("0.005")},
	{"calendar/economic", "Economic Calendar", "Economic event calendar", usdc("0.005")},

	// Technical indicators
	{"indicators/sma", "SMA Indicator", "Simple Moving Average calculation", usdc("0.003")},
	{"indicators/ema", "EMA Indicator", "Exponential Moving Average calculation", usdc("0.003")},
	{"indicators/rsi", "RSI Indicator", "Relative Strength Index", usdc("0.003")},
	{"indicators/macd", "MACD Indicator", "MACD indicator with signal line", usdc("0.005")},
	{"indicators/bbands", "Bollinger Bands", "Bollinger Bands", usdc("0.005")},
	{"indicators/batch", "Technical Batch", "Multiple indicators in one call", usdc("0.01")},

	// Analyst
	{"analyst/ratings", "Analyst Ratings", "Buy/Hold/Sell consensus ratings", usdc("0.01")},
	{"analyst/targets", "Price Targets", "Analyst price targets", usdc("0.01")},

	// News
	{"news/market", "Market News", "Market-wide news headlines", usdc("0.005")},
	{"news/company", "Company News", "Company-specific news", usdc("0.005")},

	// Bundles
	{"bundle/market_snapshot", "Market Snapshot Bundle", "", usdc("0.02")},
	{"bundle/sanctions_screen", "Sanctions Screen Bundle", "", usdc("0.02")},
	{"bundle/sec_snapshot", "SEC Company Snapshot", "", usdc("0.04")},
}
