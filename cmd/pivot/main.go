// Command pivot prints the pivot levels of one instrument.
//
//	pivot -instrument "Türk Hava Yolları" -timeframe weekly
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"pivot_backend/internal/app/config"
	"pivot_backend/internal/app/di"
	instrumentadapters "pivot_backend/internal/feature/instruments/adapters"
	instrumentusecase "pivot_backend/internal/feature/instruments/usecase"
	"pivot_backend/internal/feature/pivots/domain"
	"pivot_backend/internal/feature/pivots/transport/http/dto"
	pivotusecase "pivot_backend/internal/feature/pivots/usecase"
	infradb "pivot_backend/internal/platform/db"
	"pivot_backend/internal/platform/logger"
)

const (
	exitError  = 1
	exitNoData = 2

	fetchTimeout = time.Minute
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	// 表示を崩さないようにログは警告以上を標準エラーへ
	_ = logger.Setup(stderr, logger.Config{Level: "warn", Format: "text"})

	fs := flag.NewFlagSet("pivot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	instrument := fs.String("instrument", "", "instrument code or name (e.g. THYAO.IS)")
	var tf domain.Timeframe
	fs.TextVar(&tf, "timeframe", domain.DefaultTimeframe, "daily, weekly, monthly or quarterly")
	registry := fs.String("registry", cfg.InstrumentsFile, "instrument registry file")
	asJSON := fs.Bool("json", false, "print the API response body instead of a table")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *instrument == "" {
		fmt.Fprintln(stderr, "-instrument is required")
		fs.Usage()
		return exitError
	}

	instruments, err := instrumentadapters.LoadRegistryFile(*registry)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	resolver := instrumentusecase.NewInstrumentUsecase(instrumentadapters.NewStaticRegistry(instruments))

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	inst, err := resolver.Resolve(ctx, *instrument)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", *instrument, err)
		return exitError
	}

	var db *gorm.DB
	if cfg.MarketSource == config.SourceDB {
		if db, err = infradb.OpenDB(infradb.LoadConfigFromEnv()); err != nil {
			fmt.Fprintln(stderr, err)
			return exitError
		}
	}
	market, err := di.NewMarket(cfg, db, nil, nil)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	now := time.Now()
	res, err := pivotusecase.NewPivotUsecase(market).Analyze(ctx, inst.Code, tf, now)
	if errors.Is(err, domain.ErrNoDataAvailable) {
		fmt.Fprintf(stderr, "%s: %v\n", inst.Code, err)
		return exitNoData
	}
	if err != nil {
		slog.Error("analysis failed", "symbol", inst.Code, "error", err)
		return exitError
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dto.NewPivotResponse(inst.Name, res)); err != nil {
			fmt.Fprintln(stderr, err)
			return exitError
		}
		return 0
	}
	render(stdout, inst.Name, res, now)
	return 0
}

// render は水準表、色付きのポジション、要約を出力します。
func render(w io.Writer, name string, res *domain.AnalysisResult, now time.Time) {
	fmt.Fprintf(w, "%s (%s) · %s\n", name, res.Symbol, res.Timeframe)

	if n := len(res.Chart); n > 0 {
		last := res.Chart[n-1]
		fmt.Fprintf(w, "Last close %s, last bar %s, volume %s\n",
			dto.FormatPrice(res.LastClose),
			humanize.RelTime(last.Time, now, "ago", "from now"),
			humanize.Comma(last.Volume))
	}
	fmt.Fprintln(w)

	for _, l := range res.Levels.Ordered() {
		fmt.Fprintf(w, "  %-4s %12s\n", l.Name, dto.NewLevelItem(string(l.Name), l.Value).Display)
	}
	fmt.Fprintln(w)

	pos := res.Position()
	fmt.Fprintf(w, "Position: %s\n", positionColor(pos).Sprint(pos.String()))
	fmt.Fprintln(w, pos.Summary(res.Timeframe))
}

func positionColor(p domain.Position) *color.Color {
	switch p {
	case domain.Above:
		return color.New(color.FgGreen, color.Bold)
	case domain.Below:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow, color.Bold)
	}
}
