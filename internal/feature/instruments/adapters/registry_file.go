package adapters

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pivot_backend/internal/feature/instruments/domain"
	"pivot_backend/internal/feature/instruments/domain/entity"
	"pivot_backend/internal/feature/instruments/usecase"
)

// registryFile は config/instruments.yaml の形式です。
type registryFile struct {
	Market      string `yaml:"market"`
	Instruments []struct {
		Code   string `yaml:"code"`
		Name   string `yaml:"name"`
		Market string `yaml:"market"`
		Active *bool  `yaml:"active"`
	} `yaml:"instruments"`
}

// LoadRegistryFile は銘柄登録ファイルを読み込みます。
// 並び順はファイル内の順序で、active を省略した銘柄は有効になります。
func LoadRegistryFile(path string) ([]entity.Instrument, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	return ParseRegistry(b)
}

// ParseRegistry は YAML から銘柄一覧を組み立てます。
func ParseRegistry(b []byte) ([]entity.Instrument, error) {
	var f registryFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Instruments))
	out := make([]entity.Instrument, 0, len(f.Instruments))
	for i, it := range f.Instruments {
		code := strings.ToUpper(strings.TrimSpace(it.Code))
		name := strings.TrimSpace(it.Name)
		if code == "" || name == "" {
			return nil, fmt.Errorf("parse registry: entry %d needs code and name", i+1)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("parse registry: duplicate code %s", code)
		}
		seen[code] = struct{}{}

		market := it.Market
		if market == "" {
			market = f.Market
		}
		active := true
		if it.Active != nil {
			active = *it.Active
		}
		out = append(out, entity.Instrument{
			Code:     code,
			Name:     name,
			Market:   market,
			IsActive: active,
			SortKey:  i + 1,
		})
	}
	return out, nil
}

// staticRegistry はDBを使わずに登録ファイルの内容だけで銘柄を引くための実装です。
// CLI から使います。
type staticRegistry struct {
	instruments []entity.Instrument
}

var _ usecase.InstrumentRepository = (*staticRegistry)(nil)

func NewStaticRegistry(instruments []entity.Instrument) *staticRegistry {
	cp := make([]entity.Instrument, len(instruments))
	copy(cp, instruments)
	return &staticRegistry{instruments: cp}
}

func (r *staticRegistry) ListActive(ctx context.Context) ([]entity.Instrument, error) {
	out := make([]entity.Instrument, 0, len(r.instruments))
	for _, in := range r.instruments {
		if in.IsActive {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r *staticRegistry) ListActiveCodes(ctx context.Context) ([]string, error) {
	active, _ := r.ListActive(ctx)
	codes := make([]string, 0, len(active))
	for _, in := range active {
		codes = append(codes, in.Code)
	}
	return codes, nil
}

func (r *staticRegistry) FindByCodeOrName(ctx context.Context, query string) (entity.Instrument, error) {
	code := strings.ToUpper(query)
	for _, in := range r.instruments {
		if in.Code == code {
			return in, nil
		}
	}
	for _, in := range r.instruments {
		if in.MatchesName(query) {
			return in, nil
		}
	}
	return entity.Instrument{}, domain.ErrInstrumentNotFound
}

// UpsertBatch はメモリ上の一覧をコード単位で更新します。
func (r *staticRegistry) UpsertBatch(ctx context.Context, instruments []entity.Instrument) error {
	for _, in := range instruments {
		replaced := false
		for i := range r.instruments {
			if r.instruments[i].Code == in.Code {
				r.instruments[i] = in
				replaced = true
				break
			}
		}
		if !replaced {
			r.instruments = append(r.instruments, in)
		}
	}
	return nil
}
