package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/thecyberprinciples/meetingmind/internal/usecase/epitaph"
)

// Admin handles operational endpoints
type Admin struct {
	epitaphService epitaph.Service
	logger         *zap.Logger
}

// NewAdmin creates an admin handler
func NewAdmin(epitaphService epitaph.Service, logger *zap.Logger) *Admin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Admin{
		epitaphService: epitaphService,
		logger:         logger,
	}
}

// RunEpitaphs triggers one epitaph batch run and returns its summary.
// Normally driven by the nightly scheduler; exposed for manual reruns.
func (h *Admin) RunEpitaphs(c echo.Context) error {
	summary, err := h.epitaphService.Run(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, summary)
}
