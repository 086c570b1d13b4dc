package di

import (
	"context"
	"fmt"
	"log/slog"

	instrumentadapters "pivot_backend/internal/feature/instruments/adapters"
	instrumentusecase "pivot_backend/internal/feature/instruments/usecase"
)

// SeedFromFile は登録ファイルの銘柄をリポジトリへ反映します。
func SeedFromFile(ctx context.Context, uc *instrumentusecase.InstrumentUsecase, path string) error {
	instruments, err := instrumentadapters.LoadRegistryFile(path)
	if err != nil {
		return err
	}
	if err := uc.Seed(ctx, instruments); err != nil {
		return fmt.Errorf("seed instruments: %w", err)
	}
	slog.Info("instrument registry seeded", "file", path, "count", len(instruments))
	return nil
}
