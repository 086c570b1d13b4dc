// Package usecase はローソク足データの取り込みロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"pivot_backend/internal/feature/candles/domain/entity"
	"pivot_backend/internal/shared/ratelimiter"
)

// ingestOutputSize は1回のリクエストで取得する日足の件数です。
// 最長の分析期間（365日）をカバーできる営業日数を確保します。
const ingestOutputSize = 300

// CandleRepository はローソク足の書き込みレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CandleRepository interface {
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
}

// MarketRepository は件数指定で最新の時系列を返すデータソースです。
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

// Report は1回の取り込み結果です。
type Report struct {
	Candles   int              // 保存した日足の合計
	Succeeded []string         // 取り込みに成功した銘柄
	Failed    map[string]error // 失敗した銘柄とその理由
}

// IngestUsecase は外部APIから日足を取得してデータベースに保存します。
type IngestUsecase struct {
	market  MarketRepository
	candle  CandleRepository
	limiter ratelimiter.Limiter
}

func NewIngestUsecase(market MarketRepository, candle CandleRepository, limiter ratelimiter.Limiter) *IngestUsecase {
	return &IngestUsecase{market: market, candle: candle, limiter: limiter}
}

// IngestAll は symbols の日足を順に取得・保存します。
// リクエストごとにレートリミッターで待機し、銘柄単位の失敗は Report に記録して続行します。
// エラーを返すのは待機中にコンテキストが終了した場合だけです。その時点までの Report も返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) (Report, error) {
	rep := Report{Failed: map[string]error{}}
	for _, s := range symbols {
		if err := iu.limiter.Wait(ctx); err != nil {
			return rep, fmt.Errorf("ingest stopped before %s: %w", s, err)
		}

		n, err := iu.ingestOne(ctx, s)
		if err != nil {
			slog.Error("failed to ingest data", "symbol", s, "error", err)
			rep.Failed[s] = err
			continue
		}
		slog.Info("ingested candles", "symbol", s, "count", n)
		rep.Succeeded = append(rep.Succeeded, s)
		rep.Candles += n
	}
	return rep, nil
}

// ingestOne は1銘柄分の日足を取得し、銘柄コードと時間足を付けて保存します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol string) (int, error) {
	cs, err := iu.market.GetTimeSeries(ctx, symbol, entity.DailyInterval, ingestOutputSize)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	if len(cs) == 0 {
		return 0, nil
	}

	for i := range cs {
		cs[i].Symbol = symbol
		cs[i].Interval = entity.DailyInterval
	}
	if err := iu.candle.UpsertBatch(ctx, cs); err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}
	return len(cs), nil
}
