package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/padraicbc/footyvalue/classifier"
	mw "github.com/padraicbc/footyvalue/middleware"
	"github.com/padraicbc/footyvalue/models"
	"github.com/padraicbc/footyvalue/prediction"
)

var testKey = []byte("test-secret")

type fakePredictor struct {
	err      error
	scanned  prediction.ScanParams
	upDays   int
	upLeague int
	limit    int
	perfDays int
	picks    []prediction.MatchPrediction
}

func (f *fakePredictor) Leagues(context.Context) ([]models.League, error) {
	return []models.League{{LeagueID: 1, Name: "La Liga", Country: "Spain"}}, f.err
}

func (f *fakePredictor) Upcoming(_ context.Context, days, league int) ([]prediction.Fixture, error) {
	f.upDays, f.upLeague = days, league
	return []prediction.Fixture{{MatchRow: prediction.MatchRow{MatchID: 3}}}, f.err
}

func (f *fakePredictor) PredictMatch(_ context.Context, id int) (prediction.MatchPrediction, error) {
	if f.err != nil {
		return prediction.MatchPrediction{}, f.err
	}
	if id != 3 {
		return prediction.MatchPrediction{}, fmt.Errorf("match %d: %w", id, prediction.ErrNotFound)
	}
	return prediction.MatchPrediction{
		Match:          prediction.MatchInfo{MatchID: 3, HomeTeam: "Betis", AwayTeam: "Sevilla"},
		PredictedLabel: "Home",
		Probabilities:  prediction.Triple{Home: 0.5, Draw: 0.3, Away: 0.2},
	}, nil
}

func (f *fakePredictor) ScanUpcoming(_ context.Context, p prediction.ScanParams) ([]prediction.MatchPrediction, error) {
	f.scanned = p
	return f.picks, f.err
}

func (f *fakePredictor) History(_ context.Context, limit int) ([]prediction.HistoryEntry, error) {
	f.limit = limit
	return nil, f.err
}

func (f *fakePredictor) ModelPerformance(_ context.Context, days int) (prediction.Performance, error) {
	f.perfDays = days
	return prediction.Performance{Days: days, Total: 4, Correct: 3, Accuracy: 0.75, ROI: 12.5}, f.err
}

func (f *fakePredictor) Reconcile(context.Context) (int, error) { return 2, f.err }

func (f *fakePredictor) Train(context.Context) (classifier.Report, error) {
	return classifier.Report{Examples: 120, HoldoutSize: 24, Accuracy: 0.5}, f.err
}

type fakePublisher struct {
	got int
	err error
}

func (p *fakePublisher) Publish(_ context.Context, picks []prediction.MatchPrediction) error {
	p.got = len(picks)
	return p.err
}

func newTestServer(svc Predictor, pub *fakePublisher, authReads bool) *echo.Echo {
	h := New(nil, testKey, svc, pub, Options{
		Scan:            prediction.DefaultScanParams(),
		PerformanceDays: 60,
	}, zap.NewNop())
	e := echo.New()
	Register(e, h, authReads)
	return e
}

func do(e *echo.Echo, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, username string) string {
	t.Helper()
	h := &Handler{JWTKey: testKey}
	s, err := h.signToken(username, time.Now())
	require.NoError(t, err)
	return s
}

func TestReadRoutes(t *testing.T) {
	svc := &fakePredictor{}
	e := newTestServer(svc, &fakePublisher{}, false)

	rec := do(e, http.MethodGet, "/api/leagues", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "La Liga")

	rec = do(e, http.MethodGet, "/api/upcoming?days=3&league=1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.upDays)
	assert.Equal(t, 1, svc.upLeague)

	rec = do(e, http.MethodGet, "/api/upcoming", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, svc.upDays)

	rec = do(e, http.MethodGet, "/api/history", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, svc.limit)

	rec = do(e, http.MethodGet, "/api/performance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var perf prediction.Performance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &perf))
	assert.Equal(t, 60, perf.Days)
	assert.Equal(t, 0.75, perf.Accuracy)
}

func TestMatchPrediction(t *testing.T) {
	e := newTestServer(&fakePredictor{}, &fakePublisher{}, false)

	rec := do(e, http.MethodGet, "/api/matches/3/prediction", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mp prediction.MatchPrediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mp))
	assert.Equal(t, "Betis", mp.Match.HomeTeam)
	assert.Equal(t, 0.5, mp.Probabilities.Home)

	rec = do(e, http.MethodGet, "/api/matches/9/prediction", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/api/matches/abc/prediction", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValueParams(t *testing.T) {
	svc := &fakePredictor{}
	e := newTestServer(svc, &fakePublisher{}, false)

	rec := do(e, http.MethodGet, "/api/value", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, prediction.DefaultScanParams(), svc.scanned)

	rec = do(e, http.MethodGet, "/api/value?days=3&minValue=0.1&minConfidence=0.2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, prediction.ScanParams{Days: 3, MinValue: 0.1, MinConfidence: 0.2}, svc.scanned)

	rec = do(e, http.MethodGet, "/api/value?minValue=lots", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/value?days=-2", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("x: %w", prediction.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", prediction.ErrMalformedInput), http.StatusBadRequest},
		{fmt.Errorf("x: %w", prediction.ErrDataAccess), http.StatusInternalServerError},
		{prediction.ErrModelNotLoaded, http.StatusServiceUnavailable},
		{fmt.Errorf("x: %w", prediction.ErrTrainingInProgress), http.StatusConflict},
		{classifier.ErrNoTrainingData, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		e := newTestServer(&fakePredictor{err: tc.err}, &fakePublisher{}, false)
		rec := do(e, http.MethodGet, "/api/leagues", "")
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}

func TestProtectedRoutes(t *testing.T) {
	svc := &fakePredictor{picks: make([]prediction.MatchPrediction, 3)}
	pub := &fakePublisher{}
	e := newTestServer(svc, pub, false)
	tok := token(t, "padraic")

	rec := do(e, http.MethodPost, "/api/reconcile", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing token")

	rec = do(e, http.MethodPost, "/api/reconcile", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":2}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/train", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"examples":120`)

	rec = do(e, http.MethodPost, "/api/scan/notify?minValue=0.2", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, pub.got)
	assert.Equal(t, 0.2, svc.scanned.MinValue)

	pub.err = errors.New("telegram down")
	rec = do(e, http.MethodPost, "/api/scan/notify", tok)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestScanNotifyLogsPublishFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	svc := &fakePredictor{picks: make([]prediction.MatchPrediction, 2)}
	pub := &fakePublisher{err: errors.New("telegram down")}
	h := New(nil, testKey, svc, pub, Options{Scan: prediction.DefaultScanParams()}, zap.New(core))
	e := echo.New()
	Register(e, h, false)

	rec := do(e, http.MethodPost, "/api/scan/notify", token(t, "padraic"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	entries := logs.FilterMessage("publishing picks failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "handlers", entries[0].LoggerName)
	assert.EqualValues(t, 2, entries[0].ContextMap()["picks"])
}

func TestAuthReads(t *testing.T) {
	e := newTestServer(&fakePredictor{}, &fakePublisher{}, true)

	rec := do(e, http.MethodGet, "/api/leagues", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/leagues", token(t, "padraic"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignToken(t *testing.T) {
	tok := token(t, "padraic")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, tok)
	c := e.NewContext(req, httptest.NewRecorder())

	var user string
	err := mw.JWT(testKey)(func(c echo.Context) error {
		user, _ = c.Get("username").(string)
		return nil
	})(c)
	require.NoError(t, err)
	assert.Equal(t, "padraic", user)
}

func TestHashPasswordForUser(t *testing.T) {
	_, err := HashPasswordForUser(" ", "pw")
	assert.Error(t, err)
	_, err = HashPasswordForUser("padraic", "")
	assert.Error(t, err)

	hash, err := HashPasswordForUser("padraic", "testing")
	require.NoError(t, err)
	assert.NotEqual(t, "testing", hash)
}

func TestIsAdminUser(t *testing.T) {
	h := New(nil, testKey, &fakePredictor{}, nil, Options{AdminUsers: []string{"Padraic", " ops "}}, nil)
	assert.True(t, h.isAdminUser("padraic"))
	assert.True(t, h.isAdminUser("OPS"))
	assert.False(t, h.isAdminUser("guest"))

	h = New(nil, testKey, &fakePredictor{}, nil, Options{}, nil)
	assert.True(t, h.isAdminUser("admin"))
}
