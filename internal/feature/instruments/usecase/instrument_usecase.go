// Package usecase implements the business logic for instrument lookup.
package usecase

import (
	"context"
	"errors"
	"strings"

	"pivot_backend/internal/feature/instruments/domain"
	"pivot_backend/internal/feature/instruments/domain/entity"
)

// InstrumentRepository abstracts the persistence layer for the instrument registry.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type InstrumentRepository interface {
	ListActive(ctx context.Context) ([]entity.Instrument, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	FindByCodeOrName(ctx context.Context, query string) (entity.Instrument, error)
	UpsertBatch(ctx context.Context, instruments []entity.Instrument) error
}

// InstrumentUsecase provides business logic for instrument operations.
type InstrumentUsecase struct {
	repo InstrumentRepository
}

// NewInstrumentUsecase creates a new InstrumentUsecase with the given repository.
func NewInstrumentUsecase(r InstrumentRepository) *InstrumentUsecase {
	return &InstrumentUsecase{repo: r}
}

// ListActiveInstruments returns all active instruments in display order.
func (u *InstrumentUsecase) ListActiveInstruments(ctx context.Context) ([]entity.Instrument, error) {
	return u.repo.ListActive(ctx)
}

// ListActiveCodes returns the tickers of all active instruments.
func (u *InstrumentUsecase) ListActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// Resolve は銘柄コード（大文字小文字を区別しない）または表示名で銘柄を特定します。
// 該当なしの場合は domain.ErrInstrumentNotFound を返します。
func (u *InstrumentUsecase) Resolve(ctx context.Context, query string) (entity.Instrument, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return entity.Instrument{}, domain.ErrInstrumentNotFound
	}
	inst, err := u.repo.FindByCodeOrName(ctx, q)
	if err != nil {
		return entity.Instrument{}, err
	}
	if !inst.IsActive {
		return entity.Instrument{}, domain.ErrInstrumentNotFound
	}
	return inst, nil
}

// Seed は登録ファイルの銘柄をリポジトリへ反映します。
func (u *InstrumentUsecase) Seed(ctx context.Context, instruments []entity.Instrument) error {
	if len(instruments) == 0 {
		return errors.New("no instruments to seed")
	}
	return u.repo.UpsertBatch(ctx, instruments)
}
