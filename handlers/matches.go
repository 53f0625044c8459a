package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Leagues lists every league, for the league filter.
func (h *Handler) Leagues(c echo.Context) error {
	leagues, err := h.svc.Leagues(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, leagues)
}

// Upcoming lists fixtures in the next ?days days with their latest odds,
// optionally for one ?league.
func (h *Handler) Upcoming(c echo.Context) error {
	days, err := intParam(c, "days", h.opts.Scan.Days)
	if err != nil {
		return err
	}
	league, err := intParam(c, "league", 0)
	if err != nil {
		return err
	}

	fixtures, err := h.svc.Upcoming(c.Request().Context(), days, league)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, fixtures)
}

// MatchPrediction runs the pipeline for /matches/:id/prediction and records it.
func (h *Handler) MatchPrediction(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid match id")
	}

	mp, err := h.svc.PredictMatch(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, mp)
}
