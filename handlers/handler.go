package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/classifier"
	"github.com/padraicbc/footyvalue/models"
	"github.com/padraicbc/footyvalue/notify"
	"github.com/padraicbc/footyvalue/prediction"
)

// Predictor is the part of prediction.Service the routes use.
type Predictor interface {
	Leagues(ctx context.Context) ([]models.League, error)
	Upcoming(ctx context.Context, days, leagueID int) ([]prediction.Fixture, error)
	PredictMatch(ctx context.Context, matchID int) (prediction.MatchPrediction, error)
	ScanUpcoming(ctx context.Context, p prediction.ScanParams) ([]prediction.MatchPrediction, error)
	History(ctx context.Context, limit int) ([]prediction.HistoryEntry, error)
	ModelPerformance(ctx context.Context, days int) (prediction.Performance, error)
	Reconcile(ctx context.Context) (int, error)
	Train(ctx context.Context) (classifier.Report, error)
}

// Options holds the defaults for query parameters the client leaves out
// and the users allowed to call admin routes.
type Options struct {
	Scan            prediction.ScanParams
	PerformanceDays int
	HistoryLimit    int
	AdminUsers      []string
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	svc    Predictor
	pub    notify.Publisher
	opts   Options
	log    *zap.Logger
	JWTKey []byte
}

// New creates a Handler. A nil publisher disables notifications.
func New(db *bun.DB, jwtKey []byte, svc Predictor, pub notify.Publisher, opts Options, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if pub == nil {
		pub = notify.Nop{}
	}
	if opts.HistoryLimit == 0 {
		opts.HistoryLimit = 50
	}
	if len(opts.AdminUsers) == 0 {
		opts.AdminUsers = []string{"admin"}
	}
	return &Handler{db: db, svc: svc, pub: pub, opts: opts, log: log.Named("handlers"), JWTKey: jwtKey}
}

// httpError maps pipeline errors onto status codes. A model that is not
// ready yet is 503 and a clashing training run is 409, so clients can retry.
func httpError(err error) error {
	switch {
	case errors.Is(err, prediction.ErrTrainingInProgress):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, prediction.ErrModelNotLoaded), errors.Is(err, classifier.ErrNoTrainingData):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, prediction.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, prediction.ErrMalformedInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func intParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" param")
	}
	return v, nil
}

func floatParam(c echo.Context, name string, def float64) (float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" param")
	}
	return v, nil
}

// scanParams reads days, minValue and minConfidence.
func (h *Handler) scanParams(c echo.Context) (prediction.ScanParams, error) {
	var p prediction.ScanParams
	var err error
	if p.Days, err = intParam(c, "days", h.opts.Scan.Days); err != nil {
		return p, err
	}
	if p.MinValue, err = floatParam(c, "minValue", h.opts.Scan.MinValue); err != nil {
		return p, err
	}
	if p.MinConfidence, err = floatParam(c, "minConfidence", h.opts.Scan.MinConfidence); err != nil {
		return p, err
	}
	return p, nil
}
