package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stock-simulator/src/helpers"
	"stock-simulator/src/logger"
	"stock-simulator/src/models"
	"stock-simulator/src/utils"
)

// -----------------------------------------------------------------------------
// YahooQuoteSource fetches a last traded price per symbol from the Yahoo
// Finance chart endpoint. It is a best-effort source: callers treat any
// error as "quote unavailable" and fall back.
// -----------------------------------------------------------------------------

type YahooQuoteSource struct {
	Config     models.MMarketConfig
	Logger     *logger.Logger
	HttpClient *http.Client

	calendars map[string]*utils.TradingCalendar
	now       func() time.Time
}

// -----------------------------------------------------------------------------

func NewYahooQuoteSource(cfg models.MMarketConfig, log *logger.Logger) *YahooQuoteSource {
	return &YahooQuoteSource{
		Config: cfg,
		Logger: log,
		HttpClient: &http.Client{
			Timeout: time.Duration(cfg.QuoteTimeout) * time.Second,
		},
		calendars: make(map[string]*utils.TradingCalendar),
		now:       time.Now,
	}
}

// -----------------------------------------------------------------------------

func (s *YahooQuoteSource) Name() string {
	return "yahoo"
}

// -----------------------------------------------------------------------------

// GetLastPrice returns the regular market price for symbol, truncated to an
// integer. Non-trading days fail fast without an HTTP round trip so the
// caller's fallback path stays bounded.
func (s *YahooQuoteSource) GetLastPrice(symbol string) (int64, error) {
	if !s.calendarFor(symbol).IsTradingDay(s.now()) {
		return 0, &helpers.QuoteSourceError{SimulatorError: helpers.SimulatorError{
			Message: fmt.Sprintf("%s: not a trading day", symbol),
		}}
	}

	res, err := helpers.RetryWithBackoff("yahoo quote fetch", s.Config.QuoteRetries, 500*time.Millisecond, func() (interface{}, error) {
		return s.fetchLastPrice(symbol)
	})
	if err != nil {
		return 0, &helpers.QuoteSourceError{SimulatorError: helpers.SimulatorError{
			Message: fmt.Sprintf("quote unavailable for %s", symbol),
			Cause:   err,
		}}
	}
	return res.(int64), nil
}

// -----------------------------------------------------------------------------

func (s *YahooQuoteSource) calendarFor(symbol string) *utils.TradingCalendar {
	cal, ok := s.calendars[symbol]
	if !ok {
		cal = utils.GetCalendar(symbol)
		s.calendars[symbol] = cal
	}
	return cal
}

// -----------------------------------------------------------------------------

// yahooChartResponse is the subset of the chart payload we need.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooQuoteSource) fetchLastPrice(symbol string) (int64, error) {
	endpoint := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s", url.PathEscape(symbol))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	q := req.URL.Query()
	q.Set("interval", "1d")
	q.Set("range", "2d")
	q.Set("includePrePost", "false")
	req.URL.RawQuery = q.Encode()
	if s.Config.UserAgent != "" {
		req.Header.Set("User-Agent", s.Config.UserAgent)
	}

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("network error for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, symbol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response for %s: %w", symbol, err)
	}

	var chart yahooChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return 0, fmt.Errorf("failed to parse chart response for %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return 0, fmt.Errorf("chart error for %s: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return 0, fmt.Errorf("empty chart result for %s", symbol)
	}

	meta := chart.Chart.Result[0].Meta
	price := int64(meta.RegularMarketPrice)
	if price <= 0 {
		// Off-session responses sometimes carry only the previous close
		price = int64(meta.ChartPreviousClose)
	}
	if price <= 0 {
		return 0, fmt.Errorf("no positive price in chart response for %s", symbol)
	}

	s.Logger.Debug("fetched %s = %d", symbol, price)
	return price, nil
}
