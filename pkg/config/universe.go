package config

// DefaultUniverse is the ticker set enriched when data.universe is not configured.
var DefaultUniverse = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "TSLA", "BRK.B", "JPM", "V",
	"JNJ", "WMT", "PG", "MA", "UNH", "HD", "XOM", "CVX", "KO", "PEP",
	"ABBV", "MRK", "PFE", "COST", "AVGO", "ORCL", "CSCO", "ADBE", "CRM", "INTC",
	"AMD", "QCOM", "TXN", "NFLX", "DIS", "NKE", "MCD", "SBUX", "BA", "CAT",
	"GE", "HON", "IBM", "T", "VZ", "BAC", "WFC", "C", "GS", "MS",
}
