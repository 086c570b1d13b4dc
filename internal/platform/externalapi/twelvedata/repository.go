package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"pivot_backend/internal/feature/candles/domain/entity"
	candleusecase "pivot_backend/internal/feature/candles/usecase"
	pivotusecase "pivot_backend/internal/feature/pivots/usecase"
	"pivot_backend/internal/platform/externalapi/twelvedata/dto"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"

	// noDataMessage is the prefix Twelve Data uses when a symbol has no bars in the requested range.
	noDataMessage = "No data is available"
)

// exchangeSuffixes は Yahoo 形式の銘柄コードの接尾辞と Twelve Data の取引所名の対応です。
var exchangeSuffixes = map[string]string{
	".IS": "BIST",
}

// setSymbol は銘柄コードを Twelve Data の symbol と exchange に分けてクエリに設定します。
// "THYAO.IS" は symbol=THYAO&exchange=BIST になり、接尾辞のないコードはそのまま送ります。
func setSymbol(q url.Values, code string) {
	for suffix, exchange := range exchangeSuffixes {
		if base, ok := strings.CutSuffix(code, suffix); ok && base != "" {
			q.Set("symbol", base)
			q.Set("exchange", exchange)
			return
		}
	}
	q.Set("symbol", code)
}

// TwelveDataMarket はTwelve Data外部APIから日足を取得します。
type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
}

// 取り込み（件数指定）と分析（期間指定）の両方から使われます。
var (
	_ candleusecase.MarketRepository    = (*TwelveDataMarket)(nil)
	_ pivotusecase.MarketDataRepository = (*TwelveDataMarket)(nil)
)

func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client}
}

// GetTimeSeries は最新の outputsize 本を古い順に返します。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	q := url.Values{}
	setSymbol(q, symbol)
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(outputsize))
	return t.timeSeries(ctx, q)
}

// FetchRange は [start, end] の日足を古い順に取得します。
// 該当期間にデータがない場合は空のスライスを返します。
func (t *TwelveDataMarket) FetchRange(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	q := url.Values{}
	setSymbol(q, symbol)
	q.Set("interval", entity.DailyInterval)
	q.Set("start_date", start.Format(dateLayout))
	// end_date は排他的なので翌日を指定する
	q.Set("end_date", end.AddDate(0, 0, 1).Format(dateLayout))
	q.Set("order", "ASC")

	candles, err := t.timeSeries(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range candles {
		candles[i].Symbol = symbol
		candles[i].Interval = entity.DailyInterval
	}
	return candles, nil
}

func (t *TwelveDataMarket) timeSeries(ctx context.Context, q url.Values) ([]entity.Candle, error) {
	q.Set("apikey", t.cfg.TwelveDataAPIKey)
	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("twelvedata decode: %w", err)
	}
	if body.Status == "error" {
		if strings.HasPrefix(body.Message, noDataMessage) {
			return []entity.Candle{}, nil
		}
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	candles := make([]entity.Candle, 0, len(body.Values))
	for _, b := range body.Values {
		c, err := toCandle(b)
		if err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}
	// order=ASC を指定しない件数取得は新しい順で返る
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

func toCandle(b dto.Bar) (entity.Candle, error) {
	tm, err := time.Parse(dateTimeLayout, b.Datetime)
	if err != nil {
		if tm, err = time.Parse(dateLayout, b.Datetime); err != nil {
			return entity.Candle{}, fmt.Errorf("parse time %q: %w", b.Datetime, err)
		}
	}

	c := entity.Candle{Time: tm}
	prices := []struct {
		field string
		raw   string
		dst   *float64
	}{
		{"open", b.Open, &c.Open},
		{"high", b.High, &c.High},
		{"low", b.Low, &c.Low},
		{"close", b.Close, &c.Close},
	}
	for _, p := range prices {
		if *p.dst, err = strconv.ParseFloat(p.raw, 64); err != nil {
			return entity.Candle{}, fmt.Errorf("parse %s %q: %w", p.field, p.raw, err)
		}
	}

	if b.Volume != "" {
		if c.Volume, err = strconv.ParseInt(b.Volume, 10, 64); err != nil {
			return entity.Candle{}, fmt.Errorf("parse volume %q: %w", b.Volume, err)
		}
	}
	return c, nil
}
