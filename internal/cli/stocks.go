package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dividend-hunter/internal/cache"
	"dividend-hunter/internal/models"
	"dividend-hunter/pkg/utils"
)

func newListCmd(app *App) *cobra.Command {
	var (
		categoryFlag string
		sectorFlag   string
		minYield     float64
		maxYield     float64
		minSafety    int
		sortBy       string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ranked dividend stocks from the cached snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			filters := cache.Filters{Sector: sectorFlag}
			if categoryFlag != "" {
				cat, err := parseCategory(categoryFlag)
				if err != nil {
					return err
				}
				filters.Category = cat
			}
			if cmd.Flags().Changed("min-yield") {
				filters.MinYield = &minYield
			}
			if cmd.Flags().Changed("max-yield") {
				filters.MaxYield = &maxYield
			}
			if cmd.Flags().Changed("min-safety") {
				filters.MinSafety = &minSafety
			}

			field := cache.SortField(sortBy)
			if sortBy != "" {
				var err error
				field, err = cache.ParseSortField(sortBy)
				if err != nil {
					return err
				}
			}

			result, err := app.Service.ListStocks(cache.QueryOptions{
				Filters: filters,
				SortBy:  field,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			return renderResult(output, result)
		},
	}

	cmd.Flags().StringVar(&categoryFlag, "category", "", "filter by category (immediate, longshot, balanced)")
	cmd.Flags().StringVar(&sectorFlag, "sector", "", "filter by sector")
	cmd.Flags().Float64Var(&minYield, "min-yield", 0, "minimum dividend yield percent")
	cmd.Flags().Float64Var(&maxYield, "max-yield", 0, "maximum dividend yield percent")
	cmd.Flags().IntVar(&minSafety, "min-safety", 0, "minimum safety score")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort field (default rankScore)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (default 100)")

	return cmd
}

func newTopCmd(app *App) *cobra.Command {
	var (
		count        int
		categoryFlag string
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the highest-ranked dividend stocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			var cat models.Category
			if categoryFlag != "" {
				var err error
				cat, err = parseCategory(categoryFlag)
				if err != nil {
					return err
				}
			}

			result, err := app.Service.TopStocks(count, cat)
			if err != nil {
				return err
			}
			return renderResult(output, result)
		},
	}

	cmd.Flags().IntVar(&count, "count", 10, "number of stocks to show")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "restrict to one category")

	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ticker>",
		Short: "Fetch fresh metrics for a single ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ticker := strings.ToUpper(args[0])

			m, series, err := app.Service.GetStock(cmd.Context(), ticker)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"stock": m,
					"trend": series,
				})
			}

			renderStock(output, m)
			if len(series) > 0 {
				output.Println()
				output.Bold("Trend (%d points)", len(series))
				renderTrend(output, series)
			}
			return nil
		},
	}
}

func newTrendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "trend <ticker>",
		Short: "Show yield and score history across refreshes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ticker := strings.ToUpper(args[0])

			series, err := app.Service.GetTrend(ticker)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"ticker": ticker,
					"trend":  series,
				})
			}

			output.Bold("%s trend (%d refreshes)", ticker, len(series))
			renderTrend(output, series)
			return nil
		},
	}
}

func newSectorsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sectors",
		Short: "List sectors present in the cached snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			sectors := app.Service.ListSectors()

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"sectors": sectors})
			}
			if len(sectors) == 0 {
				output.Warning("No snapshot data. Run 'divhunter refresh' first.")
				return nil
			}
			for _, s := range sectors {
				output.Println(s)
			}
			return nil
		},
	}
}

func parseCategory(s string) (models.Category, error) {
	switch strings.ToLower(s) {
	case string(models.CategoryImmediate):
		return models.CategoryImmediate, nil
	case string(models.CategoryLongshot):
		return models.CategoryLongshot, nil
	case string(models.CategoryBalanced):
		return models.CategoryBalanced, nil
	default:
		return "", fmt.Errorf("unknown category %q (immediate, longshot, balanced)", s)
	}
}

func renderResult(output *Output, result *cache.Result) error {
	if output.IsJSON() {
		return output.JSON(result)
	}

	switch result.Status {
	case cache.StatusNeedsInit:
		output.Warning("No snapshot data. Run 'divhunter refresh' first.")
		return nil
	case cache.StatusStale:
		output.Warning("Snapshot from %s is stale. Run 'divhunter refresh' to update.",
			result.FetchedAt.Format(time.RFC3339))
		return nil
	}

	if len(result.Stocks) == 0 {
		output.Info("No stocks match the given filters.")
		return nil
	}

	table := NewTable(output,
		"TICKER", "NAME", "PRICE", "YIELD", "GROWTH", "YEARS", "SAFETY", "RANK", "CATEGORY")
	for _, s := range result.Stocks {
		table.AddRow(
			s.Ticker,
			utils.Truncate(s.Name, 24),
			utils.FormatUSD(s.Price),
			fmt.Sprintf("%.2f%%", s.DividendYield),
			utils.FormatPercent(s.GrowthRate),
			fmt.Sprintf("%d", s.ConsecutiveYears),
			output.SafetyColor(s.SafetyScore),
			fmt.Sprintf("%.1f", s.RankScore),
			string(s.Category),
		)
	}
	table.Render()

	output.Println()
	output.Dim("%d of %d matches, snapshot from %s",
		len(result.Stocks), result.Total, result.FetchedAt.Format(time.RFC3339))
	return nil
}

func renderStock(output *Output, m *models.SecurityMetrics) {
	output.Bold("%s — %s", m.Ticker, m.Name)
	if m.Sector != "" {
		output.Dim("%s / %s", m.Sector, m.Industry)
	}
	output.Println()

	output.Printf("  Price:             %s\n", utils.FormatUSD(m.Price))
	output.Printf("  Market Cap:        %s\n", utils.FormatMarketCap(m.MarketCap))
	if m.PERatio > 0 {
		output.Printf("  P/E Ratio:         %.2f\n", m.PERatio)
	}
	output.Printf("  52w Range:         %s – %s\n",
		utils.FormatUSD(m.FiftyTwoWeekLow), utils.FormatUSD(m.FiftyTwoWeekHigh))
	output.Println()

	output.Printf("  Dividend Yield:    %.2f%%\n", m.DividendYield)
	output.Printf("  Annual Dividend:   %s\n", utils.FormatUSD(m.AnnualDividend))
	output.Printf("  Payout Ratio:      %.1f%%\n", m.PayoutRatio)
	output.Printf("  Frequency:         %s\n", string(m.PaymentFrequency))
	if m.ExDividendDate != "" {
		output.Printf("  Ex-Dividend Date:  %s\n", m.ExDividendDate)
	}
	output.Println()

	output.Printf("  Growth Rate:       %s\n", utils.FormatPercent(m.GrowthRate))
	output.Printf("  Consecutive Years: %d\n", m.ConsecutiveYears)
	output.Printf("  Safety Score:      %s\n", output.SafetyColor(m.SafetyScore))
	output.Printf("  Rank Score:        %.1f\n", m.RankScore)
	output.Printf("  Category:          %s\n", string(m.Category))
}

func renderTrend(output *Output, series models.HistoricalSeries) {
	table := NewTable(output, "DATE", "YIELD", "PRICE", "GROWTH", "SAFETY")
	for _, p := range series {
		table.AddRow(
			p.Date,
			fmt.Sprintf("%.2f%%", p.Yield),
			utils.FormatUSD(p.Price),
			utils.FormatPercent(p.GrowthRate),
			output.SafetyColor(p.SafetyScore),
		)
	}
	table.Render()
}
