package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/blink"
	"github.com/aretw0/blink/internal/logging"
	"github.com/aretw0/blink/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	eng, err := blink.New(blink.WithExpandLimit(64))
	require.NoError(t, err)
	return NewHandler(eng, append([]Option{WithLogger(logging.NewNop())}, opts...)...)
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) domain.Result {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res domain.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func intPtr(n int) *int { return &n }

func TestPostCount(t *testing.T) {
	h := newTestHandler(t)

	t.Run("input and blinks", func(t *testing.T) {
		res := decodeResult(t, do(t, h, http.MethodPost, "/v1/count", CountRequest{Input: "125 17", Blinks: intPtr(6)}))
		assert.Equal(t, uint64(22), res.Total)
		assert.Equal(t, uint32(6), res.Iterations)
		assert.Equal(t, 2, res.Stones)
	})

	t.Run("values and part two", func(t *testing.T) {
		res := decodeResult(t, do(t, h, http.MethodPost, "/v1/count", CountRequest{Values: []uint64{125, 17}, Part: 2}))
		assert.Equal(t, uint64(65601038650482), res.Total)
		assert.Equal(t, domain.StrategyHistogram, res.Strategy)
	})

	t.Run("default part one", func(t *testing.T) {
		res := decodeResult(t, do(t, h, http.MethodPost, "/v1/count", CountRequest{Input: "125 17"}))
		assert.Equal(t, uint64(55312), res.Total)
		assert.Equal(t, domain.StrategyMemo, res.Strategy)
	})
}

func TestGetCount(t *testing.T) {
	h := newTestHandler(t)

	res := decodeResult(t, do(t, h, http.MethodGet, "/v1/count?stones=0+1+10+99+999&blinks=1", nil))
	assert.Equal(t, uint64(7), res.Total)

	w := do(t, h, http.MethodGet, "/v1/count?stones=125+17&blinks=many", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCount_Errors(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		name   string
		body   any
		status int
	}{
		{"bad token", CountRequest{Input: "12 x", Blinks: intPtr(1)}, http.StatusBadRequest},
		{"negative blinks", CountRequest{Input: "12", Blinks: intPtr(-1)}, http.StatusBadRequest},
		{"bad part", CountRequest{Input: "12", Part: 3}, http.StatusBadRequest},
		{"unknown field", map[string]any{"stones": "12"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/v1/count", tc.body)
			assert.Equal(t, tc.status, w.Code)

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestPostExpand(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/v1/expand", CountRequest{Input: "125 17", Blinks: intPtr(2)})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ExpandResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []uint64{253, 0, 2024, 14168}, resp.Stones)
	assert.Equal(t, 4, resp.Count)

	w = do(t, h, http.MethodPost, "/v1/expand", CountRequest{Input: "125 17", Blinks: intPtr(25)})
	assert.Equal(t, http.StatusBadRequest, w.Code, "limit of 64 stones is exceeded")
}

func TestHealthAndVersion(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/version", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blink-http")

	w = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "metrics are only mounted when configured")
}

func TestMetricsHandlerMounted(t *testing.T) {
	h := newTestHandler(t, WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("blink_runs_total 0\n"))
	})))

	w := do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blink_runs_total")
}

type failingEngine struct{}

var errStoreDown = errors.New("result store unavailable")

func (failingEngine) Run(ctx context.Context, values []uint64, iterations int) (*domain.Result, error) {
	return nil, errStoreDown
}

func (failingEngine) RunInput(ctx context.Context, input string, iterations int) (*domain.Result, error) {
	return nil, errStoreDown
}

func (failingEngine) Expand(ctx context.Context, values []uint64, iterations int) ([]uint64, error) {
	return nil, context.Canceled
}

func TestEngineFailuresAre500(t *testing.T) {
	h := NewHandler(failingEngine{}, WithLogger(logging.NewNop()))

	w := do(t, h, http.MethodPost, "/v1/count", CountRequest{Input: "1", Blinks: intPtr(1)})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(t, h, http.MethodPost, "/v1/expand", CountRequest{Input: "1", Blinks: intPtr(1)})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCount_OverflowIs422(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/v1/count", CountRequest{Input: "0", Blinks: intPtr(500)})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Contains(t, resp.Error, domain.ErrOverflow.Error())

	w = do(t, h, http.MethodPost, "/v1/count", CountRequest{Input: "9999999999999999999", Blinks: intPtr(1)})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", domain.ErrOverflow), http.StatusUnprocessableEntity},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrNegativeIterations, http.StatusBadRequest},
		{domain.ErrTooManyStones, http.StatusBadRequest},
		{domain.ErrInvalidPart, http.StatusBadRequest},
		{context.Canceled, http.StatusInternalServerError},
		{errStoreDown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), "%v", tc.err)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t)
	w := do(t, h, http.MethodOptions, "/v1/count", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
