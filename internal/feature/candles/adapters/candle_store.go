// Package adapters はcandlesフィーチャーの永続化実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pivot_backend/internal/feature/candles/domain/entity"
	"pivot_backend/internal/feature/candles/usecase"
)

type candleStore struct {
	db *gorm.DB
}

var _ usecase.CandleRepository = (*candleStore)(nil)

// NewCandleRepository はgormで永続化されたローソク足ストアを生成します。
func NewCandleRepository(db *gorm.DB) *candleStore {
	return &candleStore{db: db}
}

type CandleModel struct {
	ID       uint      `gorm:"primaryKey"`
	Symbol   string    `gorm:"size:32;not null;uniqueIndex:candle_sym_int_time,priority:1"`
	Interval string    `gorm:"size:16;not null;uniqueIndex:candle_sym_int_time,priority:2"`
	Time     time.Time `gorm:"not null;uniqueIndex:candle_sym_int_time,priority:3"`

	Open   float64 `gorm:"not null"`
	High   float64 `gorm:"not null"`
	Low    float64 `gorm:"not null"`
	Close  float64 `gorm:"not null"`
	Volume int64   `gorm:"not null;default:0"`
}

func (CandleModel) TableName() string {
	return "candles"
}

func toModel(e entity.Candle) CandleModel {
	return CandleModel{
		Symbol:   e.Symbol,
		Interval: e.Interval,
		Time:     e.Time.UTC(),
		Open:     e.Open,
		High:     e.High,
		Low:      e.Low,
		Close:    e.Close,
		Volume:   e.Volume,
	}
}

func toEntity(m CandleModel) entity.Candle {
	return entity.Candle{
		Symbol:   m.Symbol,
		Interval: m.Interval,
		Time:     m.Time,
		Open:     m.Open,
		High:     m.High,
		Low:      m.Low,
		Close:    m.Close,
		Volume:   m.Volume,
	}
}

// UpsertBatch は (symbol, interval, time) をキーにローソク足を挿入または更新します。
func (r *candleStore) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	ms := make([]CandleModel, 0, len(candles))
	for _, e := range candles {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "interval"}, {Name: "time"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).Create(&ms).Error
}

// FetchRange は start の日付から end までの日足を古い順に返します。
// start は時刻を切り捨てて日単位で扱うため、start 当日の日足も含まれます。
// データがない場合はエラーではなく空のスライスを返します。
func (r *candleStore) FetchRange(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	// 保存時刻は UTC なので比較も UTC で行う
	start, end = startOfDay(start).UTC(), end.UTC()

	var rows []CandleModel
	if err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "symbol"}, Value: symbol}).
		Where(clause.Eq{Column: clause.Column{Name: "interval"}, Value: entity.DailyInterval}).
		Where(clause.Gte{Column: clause.Column{Name: "time"}, Value: start}).
		Where(clause.Lte{Column: clause.Column{Name: "time"}, Value: end}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "time"}}).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Candle, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// startOfDay は t と同じロケーションでのその日の 0 時を返します。
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
