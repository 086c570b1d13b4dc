package di

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	instrumentadapters "pivot_backend/internal/feature/instruments/adapters"
	instrumentusecase "pivot_backend/internal/feature/instruments/usecase"
)

func TestSeedFromFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	uc := instrumentusecase.NewInstrumentUsecase(instrumentadapters.NewStaticRegistry(nil))

	require.NoError(t, SeedFromFile(ctx, uc, "../../../config/instruments.yaml"))

	codes, err := uc.ListActiveCodes(ctx)
	require.NoError(t, err)
	assert.Len(t, codes, 20)
	assert.Equal(t, "TUPRS.IS", codes[0])

	assert.Error(t, SeedFromFile(ctx, uc, "does-not-exist.yaml"))
}
