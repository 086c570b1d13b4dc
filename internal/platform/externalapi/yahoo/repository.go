package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"pivot_backend/internal/feature/candles/domain/entity"
	pivotusecase "pivot_backend/internal/feature/pivots/usecase"
	"pivot_backend/internal/platform/externalapi/yahoo/dto"
)

// notFoundCode is returned for unknown tickers and for ranges with no trading days.
const notFoundCode = "Not Found"

// YahooMarket はYahoo Financeのチャート API から日足を取得します。
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

var _ pivotusecase.MarketDataRepository = (*YahooMarket)(nil)

func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client}
}

// FetchRange は [start, end] の日足を古い順に返します。
// 値が null のバーは読み飛ばします。
func (y *YahooMarket) FetchRange(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	// period2 は排他的
	q.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if y.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", y.cfg.UserAgent)
	}

	res, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	var body dto.ChartResponse
	decodeErr := json.NewDecoder(res.Body).Decode(&body)

	if body.Chart.Error != nil {
		if body.Chart.Error.Code == notFoundCode {
			return []entity.Candle{}, nil
		}
		return nil, fmt.Errorf("yahoo: %s", body.Chart.Error.Description)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("yahoo decode: %w", decodeErr)
	}

	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return []entity.Candle{}, nil
	}
	return toCandles(symbol, body.Chart.Result[0]), nil
}

func toCandles(symbol string, r dto.ChartResult) []entity.Candle {
	quote := r.Indicators.Quote[0]
	candles := make([]entity.Candle, 0, len(r.Timestamp))

	for i, ts := range r.Timestamp {
		o, okO := at(quote.Open, i)
		h, okH := at(quote.High, i)
		l, okL := at(quote.Low, i)
		c, okC := at(quote.Close, i)
		if !okO || !okH || !okL || !okC {
			continue
		}
		var vol int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			vol = *quote.Volume[i]
		}
		candles = append(candles, entity.Candle{
			Symbol:   symbol,
			Interval: entity.DailyInterval,
			Time:     time.Unix(ts, 0).UTC(),
			Open:     o,
			High:     h,
			Low:      l,
			Close:    c,
			Volume:   vol,
		})
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles
}

func at(vs []*float64, i int) (float64, bool) {
	if i >= len(vs) || vs[i] == nil {
		return 0, false
	}
	return *vs[i], true
}
