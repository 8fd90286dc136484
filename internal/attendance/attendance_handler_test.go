package attendance_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ishiyama1989/koutuhi/internal/attendance"
	attendanceerrors "github.com/ishiyama1989/koutuhi/internal/attendance/errors"
	"github.com/ishiyama1989/koutuhi/internal/matcher"
	"github.com/ishiyama1989/koutuhi/internal/sheet"
	"github.com/ishiyama1989/koutuhi/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeService struct {
	attendance.Service
	ListSheetsFn  func(ctx context.Context, up attendance.Upload) (attendance.SheetsResponse, error)
	PreviewFn     func(ctx context.Context, up attendance.Upload, sheetName string, m sheet.Mapping) (*attendance.Preview, error)
	FactsFn       func(ctx context.Context, id string, f attendance.FactFilter) ([]attendance.IndexedFact, error)
	CorrectNameFn func(ctx context.Context, id string, index int, name string) (attendance.IndexedFact, error)
	SummaryFn     func(ctx context.Context, id string) (attendance.Summary, error)
	ExportCSVFn   func(ctx context.Context, id string) ([]byte, error)
	DeleteFn      func(ctx context.Context, id string) error
}

func (f *fakeService) ListSheets(ctx context.Context, up attendance.Upload) (attendance.SheetsResponse, error) {
	return f.ListSheetsFn(ctx, up)
}
func (f *fakeService) Preview(ctx context.Context, up attendance.Upload, sheetName string, m sheet.Mapping) (*attendance.Preview, error) {
	return f.PreviewFn(ctx, up, sheetName, m)
}
func (f *fakeService) Facts(ctx context.Context, id string, filter attendance.FactFilter) ([]attendance.IndexedFact, error) {
	return f.FactsFn(ctx, id, filter)
}
func (f *fakeService) CorrectName(ctx context.Context, id string, index int, name string) (attendance.IndexedFact, error) {
	return f.CorrectNameFn(ctx, id, index, name)
}
func (f *fakeService) Summary(ctx context.Context, id string) (attendance.Summary, error) {
	return f.SummaryFn(ctx, id)
}
func (f *fakeService) ExportCSV(ctx context.Context, id string) ([]byte, error) {
	return f.ExportCSVFn(ctx, id)
}
func (f *fakeService) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func setupRouter(svc attendance.Service, maxUpload int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	attendance.RegisterRoutes(r.Group("/api/v1"), attendance.NewHandler(svc, zap.NewNop()), zap.NewNop(),
		attendance.RouteOptions{MaxUploadBytes: maxUpload})
	return r
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]int  `json:"meta"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func multipartRequest(t *testing.T, url string, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("file", "june.xlsx")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_Preview(t *testing.T) {
	var gotMapping sheet.Mapping
	var gotSheet string
	svc := &fakeService{
		PreviewFn: func(ctx context.Context, up attendance.Upload, sheetName string, m sheet.Mapping) (*attendance.Preview, error) {
			assert.Equal(t, "june.xlsx", up.FileName)
			assert.Equal(t, []byte("PK-data"), up.Data)
			gotSheet, gotMapping = sheetName, m
			return &attendance.Preview{
				ID:    uuid.New(),
				Sheet: "6月",
				Facts: []attendance.Fact{{Name: "田中", Status: matcher.StatusOK, Cost: 120}, {Name: "佐藤", Status: matcher.StatusUnregistered}},
			}, nil
		},
	}
	r := setupRouter(svc, 1<<20)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/api/v1/imports/preview", map[string]string{
		"sheet": "6月", "layout": "table", "name_column": "1", "date_start_column": "3", "date_end_column": "33",
	}, []byte("PK-data")))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "6月", gotSheet)
	assert.Equal(t, sheet.LayoutTable, gotMapping.Layout)
	assert.Equal(t, 1, gotMapping.NameColumn)
	assert.Equal(t, 3, gotMapping.DateStartColumn)
	assert.Equal(t, 33, gotMapping.EndColumn())
	assert.Equal(t, 6, gotMapping.StartRow)

	env := decode(t, w)
	assert.True(t, env.Ok)
	assert.Equal(t, 2, env.Meta["total"])
	var data attendance.PreviewResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 2, data.Total)
	assert.Equal(t, 120.0, data.Summary.TotalCost)
	assert.Equal(t, 1, data.Facts[1].Index)
}

func TestHandler_Preview_RowLayoutDefaultsStartRow(t *testing.T) {
	svc := &fakeService{
		PreviewFn: func(ctx context.Context, up attendance.Upload, sheetName string, m sheet.Mapping) (*attendance.Preview, error) {
			assert.Equal(t, 2, m.StartRow)
			return &attendance.Preview{ID: uuid.New()}, nil
		},
	}
	w := httptest.NewRecorder()
	setupRouter(svc, 1<<20).ServeHTTP(w, multipartRequest(t, "/api/v1/imports/preview", map[string]string{
		"layout": "row", "name_column": "0", "date_start_column": "1",
	}, []byte("PK")))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandler_Preview_BindErrors(t *testing.T) {
	r := setupRouter(&fakeService{}, 1<<20)

	cases := []struct {
		name   string
		fields map[string]string
		file   []byte
	}{
		{"missing layout", map[string]string{"name_column": "1", "date_start_column": "3"}, []byte("PK")},
		{"unknown layout", map[string]string{"layout": "grid", "name_column": "1", "date_start_column": "3"}, []byte("PK")},
		{"missing file", map[string]string{"layout": "table", "name_column": "1", "date_start_column": "3"}, nil},
		{"negative column", map[string]string{"layout": "table", "name_column": "-1", "date_start_column": "3"}, []byte("PK")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, multipartRequest(t, "/api/v1/imports/preview", tc.fields, tc.file))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apperror.CodeInvalidInput, decode(t, w).Error.Code)
		})
	}
}

func TestHandler_Preview_TooLarge(t *testing.T) {
	r := setupRouter(&fakeService{}, 256)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/api/v1/imports/preview", map[string]string{
		"layout": "table", "name_column": "1", "date_start_column": "3",
	}, bytes.Repeat([]byte("x"), 4096)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, apperror.CodePayloadTooLarge, decode(t, w).Error.Code)
}

func TestHandler_ListSheets(t *testing.T) {
	svc := &fakeService{
		ListSheetsFn: func(ctx context.Context, up attendance.Upload) (attendance.SheetsResponse, error) {
			return attendance.SheetsResponse{FileName: up.FileName, Sheets: []attendance.SheetInfo{{Name: "6月", Rows: 40}}}, nil
		},
	}
	w := httptest.NewRecorder()
	setupRouter(svc, 1<<20).ServeHTTP(w, multipartRequest(t, "/api/v1/imports/sheets", nil, []byte("PK")))

	assert.Equal(t, http.StatusOK, w.Code)
	var data attendance.SheetsResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "june.xlsx", data.FileName)
	assert.Equal(t, "6月", data.Sheets[0].Name)
}

func TestHandler_GetFilterAndPaging(t *testing.T) {
	id := uuid.NewString()
	svc := &fakeService{
		FactsFn: func(ctx context.Context, gotID string, f attendance.FactFilter) ([]attendance.IndexedFact, error) {
			assert.Equal(t, id, gotID)
			assert.Equal(t, "田中", f.Person)
			assert.Equal(t, matcher.StatusOK, f.Status)
			return []attendance.IndexedFact{{Index: 0}, {Index: 3}, {Index: 7}}, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/previews/"+id+"?person=%E7%94%B0%E4%B8%AD&status=OK&page=2&page_size=2", nil)
	setupRouter(svc, 1<<20).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, 3, env.Meta["total"])
	assert.Equal(t, 2, env.Meta["totalPages"])
	var facts []attendance.IndexedFact
	require.NoError(t, json.Unmarshal(env.Data, &facts))
	require.Len(t, facts, 1)
	assert.Equal(t, 7, facts[0].Index)
}

func TestHandler_GetNotFound(t *testing.T) {
	svc := &fakeService{
		FactsFn: func(ctx context.Context, id string, f attendance.FactFilter) ([]attendance.IndexedFact, error) {
			return nil, attendanceerrors.ErrPreviewNotFound
		},
	}
	w := httptest.NewRecorder()
	setupRouter(svc, 1<<20).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/previews/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, decode(t, w).Error.Code)
}

func TestHandler_CorrectName(t *testing.T) {
	svc := &fakeService{
		CorrectNameFn: func(ctx context.Context, id string, index int, name string) (attendance.IndexedFact, error) {
			assert.Equal(t, 2, index)
			assert.Equal(t, "山田 太郎", name)
			return attendance.IndexedFact{Index: 2, Fact: attendance.Fact{Name: name, NameModified: true}}, nil
		},
	}
	r := setupRouter(svc, 1<<20)
	id := uuid.NewString()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/previews/"+id+"/facts/2", strings.NewReader(`{"name":"山田 太郎"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/previews/"+id+"/facts/x", strings.NewReader(`{"name":"a"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/previews/"+id+"/facts/2", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ExportCSV(t *testing.T) {
	svc := &fakeService{
		ExportCSVFn: func(ctx context.Context, id string) ([]byte, error) {
			return []byte("\ufeff名前,合計通勤費(円),出勤日数\n"), nil
		},
	}
	w := httptest.NewRecorder()
	setupRouter(svc, 1<<20).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/previews/"+uuid.NewString()+"/export.csv", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment; filename*=UTF-8''"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\ufeff名前"))
}

func TestHandler_SummaryAndDelete(t *testing.T) {
	svc := &fakeService{
		SummaryFn: func(ctx context.Context, id string) (attendance.Summary, error) {
			return attendance.Summary{TotalRecords: 4, TotalCost: 900}, nil
		},
		DeleteFn: func(ctx context.Context, id string) error { return nil },
	}
	r := setupRouter(svc, 1<<20)
	id := uuid.NewString()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/previews/"+id+"/summary", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var sum attendance.Summary
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &sum))
	assert.Equal(t, 900.0, sum.TotalCost)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/previews/"+id, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
