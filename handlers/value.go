package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Value returns upcoming value picks, best first.
func (h *Handler) Value(c echo.Context) error {
	p, err := h.scanParams(c)
	if err != nil {
		return err
	}

	picks, err := h.svc.ScanUpcoming(c.Request().Context(), p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, picks)
}

// ScanNotify scans like Value and publishes the picks.
func (h *Handler) ScanNotify(c echo.Context) error {
	p, err := h.scanParams(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	picks, err := h.svc.ScanUpcoming(ctx, p)
	if err != nil {
		return httpError(err)
	}

	if err := h.pub.Publish(ctx, picks); err != nil {
		h.log.Error("publishing picks failed", zap.Int("picks", len(picks)), zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]int{"picks": len(picks)})
}
