package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// History returns the latest ?limit recorded predictions.
func (h *Handler) History(c echo.Context) error {
	limit, err := intParam(c, "limit", h.opts.HistoryLimit)
	if err != nil {
		return err
	}

	entries, err := h.svc.History(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Performance scores reconciled predictions over the last ?days days.
func (h *Handler) Performance(c echo.Context) error {
	days, err := intParam(c, "days", h.opts.PerformanceDays)
	if err != nil {
		return err
	}

	perf, err := h.svc.ModelPerformance(c.Request().Context(), days)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, perf)
}

// Reconcile settles predictions for finished matches.
func (h *Handler) Reconcile(c echo.Context) error {
	n, err := h.svc.Reconcile(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"updated": n})
}

// Train refits the model from completed matches and returns the holdout report.
func (h *Handler) Train(c echo.Context) error {
	report, err := h.svc.Train(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}
