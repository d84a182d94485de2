package provider

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"dividend-hunter/internal/errors"
	"dividend-hunter/internal/logging"
	"dividend-hunter/internal/models"
)

const (
	quoteSummaryPath = "/v10/finance/quoteSummary/%s"
	chartPath        = "/v8/finance/chart/%s"

	quoteSummaryModules = "summaryDetail,price,assetProfile,defaultKeyStatistics"
	dividendRange       = "10y"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// YahooProvider implements MarketDataProvider against the Yahoo Finance
// public JSON endpoints. Calls are fail-fast with no internal retry; the
// refresh orchestrator owns pacing.
type YahooProvider struct {
	client *resty.Client
}

// YahooConfig holds Yahoo provider configuration.
type YahooConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewYahooProvider creates a Yahoo Finance market data provider.
func NewYahooProvider(cfg YahooConfig) *YahooProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")
	return &YahooProvider{client: client}
}

// GetInfo fetches company metadata and dividend fundamentals for one ticker.
func (p *YahooProvider) GetInfo(ctx context.Context, ticker string) (info *SecurityInfo, err error) {
	started := time.Now()
	defer func() {
		logging.LogProviderCall(logging.FromContext(ctx), ticker, "GetInfo", time.Since(started), err)
	}()

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("modules", quoteSummaryModules).
		Get(fmt.Sprintf(quoteSummaryPath, ticker))
	if err != nil {
		return nil, errors.NewProviderError(ticker, "GetInfo", err)
	}
	if resp.IsError() {
		return nil, errors.NewProviderError(ticker, "GetInfo", fmt.Errorf("http %d", resp.StatusCode()))
	}

	result := gjson.GetBytes(resp.Body(), "quoteSummary.result.0")
	if !result.Exists() {
		return nil, errors.NewProviderError(ticker, "GetInfo", fmt.Errorf("missing quoteSummary result"))
	}

	detail := result.Get("summaryDetail")
	price := result.Get("price")
	profile := result.Get("assetProfile")

	info = &SecurityInfo{
		Name:               firstString(price, "shortName", "longName"),
		Sector:             stringOr(profile.Get("sector"), "Unknown"),
		Industry:           stringOr(profile.Get("industry"), "Unknown"),
		Price:              rawFloat(price.Get("regularMarketPrice")),
		MarketCap:          rawFloat(price.Get("marketCap")),
		PERatio:            rawFloat(detail.Get("trailingPE")),
		FiftyTwoWeekHigh:   rawFloat(detail.Get("fiftyTwoWeekHigh")),
		FiftyTwoWeekLow:    rawFloat(detail.Get("fiftyTwoWeekLow")),
		DividendYield:      rawFloat(detail.Get("dividendYield")),
		PayoutRatio:        rawFloat(detail.Get("payoutRatio")),
		AnnualDividendRate: rawFloat(detail.Get("dividendRate")),
		ExDividendDate:     rawInt(detail.Get("exDividendDate")),
	}
	if info.Name == "" {
		info.Name = ticker
	}
	return info, nil
}

// GetDividendHistory fetches the historical dividend payments for one ticker,
// sorted by date ascending.
func (p *YahooProvider) GetDividendHistory(ctx context.Context, ticker string) (events []models.DividendEvent, err error) {
	started := time.Now()
	defer func() {
		logging.LogProviderCall(logging.FromContext(ctx), ticker, "GetDividendHistory", time.Since(started), err)
	}()

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"range":    dividendRange,
			"interval": "1mo",
			"events":   "div",
		}).
		Get(fmt.Sprintf(chartPath, ticker))
	if err != nil {
		return nil, errors.NewProviderError(ticker, "GetDividendHistory", err)
	}
	if resp.IsError() {
		return nil, errors.NewProviderError(ticker, "GetDividendHistory", fmt.Errorf("http %d", resp.StatusCode()))
	}

	dividends := gjson.GetBytes(resp.Body(), "chart.result.0.events.dividends")
	if !dividends.Exists() {
		// Not an error: plenty of tickers simply never paid a dividend.
		return nil, nil
	}

	dividends.ForEach(func(_, value gjson.Result) bool {
		ts := value.Get("date").Int()
		amount := value.Get("amount").Float()
		if ts == 0 || amount <= 0 {
			return true
		}
		events = append(events, models.DividendEvent{
			Date:   time.Unix(ts, 0).UTC(),
			Amount: decimal.NewFromFloat(amount),
		})
		return true
	})

	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

// rawFloat reads Yahoo's {raw, fmt} wrapped numbers, falling back to a bare
// number when the wrapper is absent.
func rawFloat(v gjson.Result) float64 {
	if raw := v.Get("raw"); raw.Exists() {
		return raw.Float()
	}
	return v.Float()
}

func rawInt(v gjson.Result) int64 {
	if raw := v.Get("raw"); raw.Exists() {
		return raw.Int()
	}
	return v.Int()
}

func firstString(v gjson.Result, keys ...string) string {
	for _, key := range keys {
		if s := v.Get(key).String(); s != "" {
			return s
		}
	}
	return ""
}

func stringOr(v gjson.Result, fallback string) string {
	if s := v.String(); s != "" {
		return s
	}
	return fallback
}
