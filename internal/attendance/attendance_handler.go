package attendance

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	attendanceerrors "github.com/ishiyama1989/koutuhi/internal/attendance/errors"
	"github.com/ishiyama1989/koutuhi/internal/matcher"
	"github.com/ishiyama1989/koutuhi/internal/shared/apperror"
	"github.com/ishiyama1989/koutuhi/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.writeServiceError(c, apperror.ErrPayloadTooLarge)
		return
	}
	h.logger.Warn("http attendance validation failed", zap.String("path", c.FullPath()), zap.Error(err))
	h.writeServiceError(c, apperror.MapValidationError(err))
}

func readUpload(fh *multipart.FileHeader) (Upload, error) {
	if fh == nil {
		return Upload{}, attendanceerrors.ErrFileRequired
	}
	f, err := fh.Open()
	if err != nil {
		return Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Upload{}, err
	}
	if len(data) == 0 {
		return Upload{}, attendanceerrors.ErrFileRequired
	}
	return Upload{FileName: fh.Filename, Data: data}, nil
}

func (h *Handler) ListSheets(c *gin.Context) {
	var req SheetsRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	up, err := readUpload(req.File)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ListSheets(c.Request.Context(), up)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	up, err := readUpload(req.File)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	p, err := h.service.Preview(c.Request.Context(), up, req.Sheet, req.Mapping())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	facts := filterFacts(p.Facts, FactFilter{})
	start, end, meta := response.Paginate(len(facts), 1, pageSize(c))
	response.Success(c, http.StatusCreated, PreviewResponse{
		ID:       p.ID.String(),
		FileName: p.FileName,
		Sheet:    p.Sheet,
		Mapping:  p.Mapping,
		Total:    len(p.Facts),
		Summary:  Summarize(p.Facts),
		Facts:    facts[start:end],
	}, &meta)
}

// Get lists a preview's facts. person and status filter before paging.
func (h *Handler) Get(c *gin.Context) {
	filter := FactFilter{
		Person: strings.TrimSpace(c.Query("person")),
		Status: matcher.Status(strings.TrimSpace(c.Query("status"))),
	}
	facts, err := h.service.Facts(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	start, end, meta := response.Paginate(len(facts), page, pageSize(c))
	response.Success(c, http.StatusOK, facts[start:end], &meta)
}

func pageSize(c *gin.Context) int {
	n, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	return n
}

func (h *Handler) People(c *gin.Context) {
	people, err := h.service.People(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, people, nil)
}

func factIndex(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	return i, err == nil && i >= 0
}

func (h *Handler) CorrectName(c *gin.Context) {
	index, ok := factIndex(c)
	if !ok {
		h.writeServiceError(c, attendanceerrors.ErrFactNotFound)
		return
	}
	var req CorrectNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	fact, err := h.service.CorrectName(c.Request.Context(), c.Param("id"), index, req.Name)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, fact, nil)
}

func (h *Handler) ResetName(c *gin.Context) {
	index, ok := factIndex(c)
	if !ok {
		h.writeServiceError(c, attendanceerrors.ErrFactNotFound)
		return
	}
	fact, err := h.service.ResetName(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, fact, nil)
}

func (h *Handler) Summary(c *gin.Context) {
	s, err := h.service.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, s, nil)
}

func (h *Handler) Analysis(c *gin.Context) {
	a, err := h.service.Analysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a, nil)
}

func (h *Handler) PatternMatches(c *gin.Context) {
	res, err := h.service.PatternMatches(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func (h *Handler) ExportCSV(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Attachment(c, http.StatusOK, contentTypeCSV, "通勤費集計_"+today()+".csv", data)
}

func (h *Handler) ExportDetailCSV(c *gin.Context) {
	data, err := h.service.ExportDetailCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Attachment(c, http.StatusOK, contentTypeCSV, "通勤費明細_"+today()+".csv", data)
}

func (h *Handler) ExportXLSX(c *gin.Context) {
	data, err := h.service.ExportXLSX(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Attachment(c, http.StatusOK, contentTypeXLSX, "通勤費集計_"+today()+".xlsx", data)
}

func (h *Handler) ExportPatternCSV(c *gin.Context) {
	data, err := h.service.ExportPatternCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Attachment(c, http.StatusOK, contentTypeCSV, "パターン照合結果_"+today()+".csv", data)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
