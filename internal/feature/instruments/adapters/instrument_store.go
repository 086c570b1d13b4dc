// Package adapters はinstrumentsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pivot_backend/internal/feature/instruments/domain"
	"pivot_backend/internal/feature/instruments/domain/entity"
	"pivot_backend/internal/feature/instruments/usecase"
)

// InstrumentModel は instruments テーブルのGORMモデルです。
type InstrumentModel struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:100;not null"`
	IsActive  bool      `gorm:"not null"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (InstrumentModel) TableName() string {
	return "instruments"
}

func toInstrumentModel(e entity.Instrument) InstrumentModel {
	return InstrumentModel{
		Code:     e.Code,
		Name:     e.Name,
		Market:   e.Market,
		IsActive: e.IsActive,
		SortKey:  e.SortKey,
	}
}

func (m InstrumentModel) toEntity() entity.Instrument {
	return entity.Instrument{
		Code:     m.Code,
		Name:     m.Name,
		Market:   m.Market,
		IsActive: m.IsActive,
		SortKey:  m.SortKey,
	}
}

// instrumentStore はInstrumentRepositoryインターフェースのGORM実装です。
type instrumentStore struct {
	db *gorm.DB
}

var _ usecase.InstrumentRepository = (*instrumentStore)(nil)

// NewInstrumentRepository は指定されたDB接続でinstrumentStoreの新しいインスタンスを生成します。
func NewInstrumentRepository(db *gorm.DB) *instrumentStore {
	return &instrumentStore{db: db}
}

// ListActive はsort_key順にすべてのアクティブな銘柄を返します。
func (r *instrumentStore) ListActive(ctx context.Context) ([]entity.Instrument, error) {
	var rows []InstrumentModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Instrument, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// ListActiveCodes はsort_key順にアクティブな銘柄のコードのみを返します。
func (r *instrumentStore) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&InstrumentModel{}).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// FindByCodeOrName はコード完全一致を優先し、なければ表示名で検索します。
// 表示名の比較はトルコ語の大文字小文字を考慮するため Go 側で行います。
func (r *instrumentStore) FindByCodeOrName(ctx context.Context, query string) (entity.Instrument, error) {
	var m InstrumentModel
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(query)).
		First(&m).Error
	if err == nil {
		return m.toEntity(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Instrument{}, err
	}

	var rows []InstrumentModel
	if err := r.db.WithContext(ctx).Order("sort_key ASC").Find(&rows).Error; err != nil {
		return entity.Instrument{}, err
	}
	for _, row := range rows {
		if row.toEntity().MatchesName(query) {
			return row.toEntity(), nil
		}
	}
	return entity.Instrument{}, domain.ErrInstrumentNotFound
}

// UpsertBatch はコードをキーに銘柄を挿入または更新します。
func (r *instrumentStore) UpsertBatch(ctx context.Context, instruments []entity.Instrument) error {
	if len(instruments) == 0 {
		return nil
	}
	rows := make([]InstrumentModel, 0, len(instruments))
	for _, e := range instruments {
		rows = append(rows, toInstrumentModel(e))
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "market", "is_active", "sort_key", "updated_at"}),
		}).
		Create(&rows).Error
}
