// Package universe defines the set of tickers a refresh covers.
package universe

import (
	"bufio"
	"os"
	"strings"

	"dividend-hunter/internal/errors"
)

// SP500 is the built-in default universe: the S&P 500 constituents at the
// time the list was captured. A config-supplied file overrides it.
var SP500 = []string{
	"AAPL", "MSFT", "AMZN", "NVDA", "GOOGL", "META", "GOOG", "BRK.B", "LLY", "AVGO",
	"JPM", "V", "UNH", "XOM", "TSLA", "MA", "JNJ", "PG", "COST", "HD",
	"MRK", "ABBV", "CVX", "CRM", "BAC", "AMD", "KO", "NFLX", "PEP", "WMT",
	"TMO", "ADBE", "LIN", "ACN", "MCD", "DIS", "CSCO", "ABT", "WFC", "PM",
	"DHR", "QCOM", "CAT", "VZ", "INTC", "INTU", "TXN", "IBM", "GE", "CMCSA",
	"NEE", "AMGN", "PFE", "AMAT", "NOW", "ISRG", "UNP", "RTX", "SPGI", "GS",
	"HON", "LOW", "BKNG", "BLK", "T", "ELV", "AXP", "COP", "PLD", "VRTX",
	"SYK", "C", "ETN", "MDLZ", "TJX", "PANW", "BSX", "SCHW", "MMC", "ADP",
	"ADI", "SBUX", "LRCX", "GILD", "MO", "CB", "FI", "BMY", "DE", "TMUS",
	"CVS", "CI", "SO", "CME", "ZTS", "DUK", "BDX", "REGN", "CL", "EOG",
	"PGR", "SLB", "EQIX", "ITW", "SNPS", "APD", "NOC", "MCK", "ICE", "MU",
	"PNC", "CSX", "CDNS", "TT", "AON", "PYPL", "SHW", "WM", "USB", "ORLY",
	"FCX", "PSX", "MSI", "EMR", "MCO", "CTAS", "CMG", "MMM", "GD", "OXY",
	"HLT", "NSC", "CCI", "HUM", "KLAC", "PH", "MAR", "APH", "PCAR", "AJG",
	"ROP", "AZO", "CARR", "TDG", "NEM", "AEP", "ECL", "TRV", "WELL", "SPG",
	"AFL", "SRE", "MCHP", "PSA", "FTNT", "MET", "HES", "EW", "F", "O",
	"COF", "TEL", "AIG", "KMB", "MSCI", "D", "NUE", "PAYX", "KMI", "CNC",
	"BK", "ROST", "AMP", "NXPI", "JCI", "ALL", "MNST", "DLR", "GWW", "FDX",
	"OKE", "PRU", "IDXX", "LHX", "IQV", "PEG", "DHI", "A", "PCG", "VLO",
	"KR", "CTSH", "KDP", "OTIS", "GM", "STZ", "CMI", "FAST", "GEHC", "RSG",
	"YUM", "AME", "ODFL", "CPRT", "EA", "HWM", "XEL", "GIS", "VRSK", "PWR",
	"FANG", "WEC", "EXC", "BKR", "BIIB", "IT", "CBRE", "DD", "CTVA", "VICI",
	"HPQ", "EXR", "VMC", "ED", "EFX", "MLM", "ACGL", "DXCM", "ON", "WAB",
	"RCL", "AVB", "ANSS", "DG", "EBAY", "HAL", "CAH", "AWK", "RMD", "XYL",
	"HIG", "WTW", "KEYS", "EIX", "GRMN", "LULU", "DAL", "KHC", "DVN", "TTWO",
	"MTD", "HPE", "DOW", "ROK", "WMB", "PPG", "WBD", "GPN", "IFF", "CHD",
	"CSGP", "CDW", "TSCO", "URI", "DLTR", "APTV", "ETR", "EQR", "FTV", "TROW",
	"NVR", "ULTA", "SBAC", "STT", "HSY", "BR", "ILMN", "DTE", "MTB", "SYY",
	"FITB", "TYL", "DOV", "MOH", "PPL", "ZBH", "AEE", "FE", "RF", "CLX",
	"K", "LYB", "NTAP", "ES", "LVS", "IRM", "ATO", "DRI", "MKC", "VLTO",
	"STLD", "HBAN", "TDY", "SW", "BALL", "CBOE", "WAT", "WRB", "LH", "NTRS",
	"NRG", "ALGN", "HOLX", "COO", "BAX", "EXPD", "DGX", "WDC", "CNP", "GPC",
	"STE", "MAA", "PKG", "J", "CF", "STX", "LDOS", "PFG", "TRGP", "BBY",
	"ESS", "FDS", "SYF", "CINF", "OMC", "NI", "ARE", "PTC", "VRSN", "MAS",
	"CMS", "JBHT", "IP", "TSN", "LUV", "ZBRA", "KEY", "TXT", "AMCR", "EG",
	"CFG", "DPZ", "L", "AES", "HUBB", "EVRG", "POOL", "AKAM", "GEN", "KIM",
	"SWK", "AVY", "RVTY", "BRO", "LKQ", "UDR", "SWKS", "EMN", "CE", "CAG",
	"TECH", "LNT", "CPT", "JKHY", "HST", "APA", "REG", "TPR", "SNA", "ALB",
	"IPG", "WRK", "TAP", "GL", "CPB", "CHRW", "BXP", "NDAQ", "ALLE", "AIZ",
	"BG", "HSIC", "WYNN", "FFIV", "PNR", "ROL", "INCY", "MGM", "MOS", "MKTX",
	"CRL", "HRL", "IEX", "VTRS", "BWA", "QRVO", "BBWI", "PAYC", "NDSN", "MTCH",
	"ETSY", "WBA", "PARA", "AAL", "HAS", "FRT", "RHI", "GNRC", "BIO", "CZR",
	"CTLT", "VFC", "PNW", "WHR", "ZION", "XRAY", "NWS", "SEE", "HII", "FMC",
	"NWSA", "DVA", "MHK", "IVZ", "LUMN",
}

// Load returns the refresh universe. When path is empty the built-in list is
// used; otherwise the file is read one ticker per line, with blank lines and
// #-comments skipped. Tickers are upper-cased and de-duplicated preserving
// first occurrence.
func Load(path string) ([]string, error) {
	if path == "" {
		out := make([]string, len(SP500))
		copy(out, SP500)
		return out, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening universe file %s", path)
	}
	defer f.Close()

	var tickers []string
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t := strings.ToUpper(line)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tickers = append(tickers, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading universe file %s", path)
	}
	if len(tickers) == 0 {
		return nil, errors.ErrEmptyUniverse
	}
	return tickers, nil
}
