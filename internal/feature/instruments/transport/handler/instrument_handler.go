package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"pivot_backend/internal/feature/instruments/domain/entity"
	"pivot_backend/internal/feature/instruments/transport/http/dto"
)

// InstrumentUsecase は銘柄一覧に関するユースケースのインターフェースです。
type InstrumentUsecase interface {
	ListActiveInstruments(ctx context.Context) ([]entity.Instrument, error)
}

// InstrumentHandler は銘柄情報に関するHTTPリクエストを処理します。
type InstrumentHandler struct {
	uc InstrumentUsecase
}

// NewInstrumentHandler は新しい InstrumentHandler を作成します。
func NewInstrumentHandler(uc InstrumentUsecase) *InstrumentHandler {
	return &InstrumentHandler{uc: uc}
}

// List は有効な銘柄の一覧を表示順に返します。
// Usecaseでエラーが発生した場合は500 Internal Server Errorを返します。
func (h *InstrumentHandler) List(c *gin.Context) {
	instruments, err := h.uc.ListActiveInstruments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.InstrumentItem, 0, len(instruments))
	for _, s := range instruments {
		out = append(out, dto.InstrumentItem{Code: s.Code, Name: s.Name, Market: s.Market})
	}
	c.JSON(http.StatusOK, out)
}
