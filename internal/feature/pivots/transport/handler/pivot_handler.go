package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	instrumentdomain "pivot_backend/internal/feature/instruments/domain"
	instrumententity "pivot_backend/internal/feature/instruments/domain/entity"
	"pivot_backend/internal/feature/pivots/domain"
	"pivot_backend/internal/feature/pivots/transport/http/dto"
	"pivot_backend/internal/platform/metrics"
)

// PivotUsecase はピボット分析のユースケースです。
type PivotUsecase interface {
	Analyze(ctx context.Context, symbol string, tf domain.Timeframe, now time.Time) (*domain.AnalysisResult, error)
}

// InstrumentResolver はパスの銘柄指定（コードまたは名前）を銘柄に解決します。
type InstrumentResolver interface {
	Resolve(ctx context.Context, query string) (instrumententity.Instrument, error)
}

// AnalysisRecorder は分析結果の件数を記録します。
type AnalysisRecorder interface {
	RecordAnalysis(timeframe, outcome string)
}

// PivotHandler はピボット分析に関するHTTPリクエストを処理します。
type PivotHandler struct {
	uc       PivotUsecase
	resolver InstrumentResolver
	recorder AnalysisRecorder
	now      func() time.Time
}

// NewPivotHandler は新しい PivotHandler を作成します。recorder は nil でも構いません。
func NewPivotHandler(uc PivotUsecase, resolver InstrumentResolver, recorder AnalysisRecorder) *PivotHandler {
	return &PivotHandler{uc: uc, resolver: resolver, recorder: recorder, now: time.Now}
}

// Get は GET /pivots/:code?timeframe=weekly を処理します。
// timeframe を省略すると weekly で分析します。
func (h *PivotHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	tf := domain.DefaultTimeframe
	if raw, ok := c.GetQuery("timeframe"); ok {
		parsed, err := domain.ParseTimeframe(raw)
		if err != nil {
			h.record("unknown", metrics.OutcomeInvalid)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tf = parsed
	}

	inst, err := h.resolver.Resolve(ctx, c.Param("code"))
	if err != nil {
		if errors.Is(err, instrumentdomain.ErrInstrumentNotFound) {
			h.record(tf.String(), metrics.OutcomeInvalid)
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.record(tf.String(), metrics.OutcomeError)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	res, err := h.uc.Analyze(ctx, inst.Code, tf, h.now())
	if err != nil {
		if errors.Is(err, domain.ErrNoDataAvailable) {
			h.record(tf.String(), metrics.OutcomeNoData)
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		slog.Error("pivot analysis failed", "symbol", inst.Code, "timeframe", tf.String(), "error", err)
		h.record(tf.String(), metrics.OutcomeError)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.record(tf.String(), metrics.OutcomeOK)
	c.JSON(http.StatusOK, dto.NewPivotResponse(inst.Name, res))
}

// Timeframes は利用可能な時間軸と各ウィンドウの日数を返します。
func (h *PivotHandler) Timeframes(c *gin.Context) {
	tfs := domain.Timeframes()
	out := make([]dto.TimeframeItem, 0, len(tfs))
	for _, tf := range tfs {
		out = append(out, dto.TimeframeItem{
			ID:      tf.String(),
			Default: tf == domain.DefaultTimeframe,
			Window:  domain.ResolveWindow(tf),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *PivotHandler) record(timeframe, outcome string) {
	if h.recorder != nil {
		h.recorder.RecordAnalysis(timeframe, outcome)
	}
}
