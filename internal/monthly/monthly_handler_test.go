package monthly_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ishiyama1989/koutuhi/internal/monthly"
	monthlyerrors "github.com/ishiyama1989/koutuhi/internal/monthly/errors"
	"github.com/ishiyama1989/koutuhi/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeService struct {
	monthly.Service
	SaveFn   func(ctx context.Context, req monthly.SaveRequest) (monthly.SaveResponse, error)
	ListFn   func(ctx context.Context) ([]monthly.MonthEntry, error)
	GetFn    func(ctx context.Context, month string) (monthly.Record, error)
	DeleteFn func(ctx context.Context, month string) error
}

func (f *fakeService) Save(ctx context.Context, req monthly.SaveRequest) (monthly.SaveResponse, error) {
	return f.SaveFn(ctx, req)
}
func (f *fakeService) List(ctx context.Context) ([]monthly.MonthEntry, error) {
	return f.ListFn(ctx)
}
func (f *fakeService) Get(ctx context.Context, month string) (monthly.Record, error) {
	return f.GetFn(ctx, month)
}
func (f *fakeService) Delete(ctx context.Context, month string) error {
	return f.DeleteFn(ctx, month)
}

func setupRouter(svc monthly.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	monthly.RegisterRoutes(r.Group("/api/v1"), monthly.NewHandler(svc, zap.NewNop()), zap.NewNop())
	return r
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestHandler_Save(t *testing.T) {
	var got monthly.SaveRequest
	svc := &fakeService{SaveFn: func(_ context.Context, req monthly.SaveRequest) (monthly.SaveResponse, error) {
		got = req
		return monthly.SaveResponse{Month: "2025-06", Replaced: req.Month == "2025-05"}, nil
	}}
	r := setupRouter(svc)

	w, env := do(t, r, http.MethodPost, "/api/v1/months", `{"previewId":"abc","month":"2025-06"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Ok)
	assert.Equal(t, monthly.SaveRequest{PreviewID: "abc", Month: "2025-06"}, got)

	w, _ = do(t, r, http.MethodPost, "/api/v1/months", `{"previewId":"abc","month":"2025-05"}`)
	assert.Equal(t, http.StatusOK, w.Code, "overwrite")

	w, env = do(t, r, http.MethodPost, "/api/v1/months", `{"month":"2025-06"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeInvalidInput, env.Error.Code)
}

func TestHandler_GetNotFound(t *testing.T) {
	svc := &fakeService{GetFn: func(_ context.Context, month string) (monthly.Record, error) {
		assert.Equal(t, "2025-06", month)
		return monthly.Record{}, monthlyerrors.ErrMonthNotFound
	}}

	w, env := do(t, setupRouter(svc), http.MethodGet, "/api/v1/months/2025-06", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, env.Error.Code)
}

func TestHandler_ListAndDelete(t *testing.T) {
	svc := &fakeService{
		ListFn: func(context.Context) ([]monthly.MonthEntry, error) {
			return []monthly.MonthEntry{{Month: "2025-05"}, {Month: "2025-06"}}, nil
		},
		DeleteFn: func(context.Context, string) error { return nil },
	}
	r := setupRouter(svc)

	w, env := do(t, r, http.MethodGet, "/api/v1/months", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var list []monthly.MonthEntry
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/months/2025-06", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
