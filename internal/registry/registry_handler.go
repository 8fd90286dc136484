package registry

import (
	"io"
	"net/http"
	"strings"
	"time"

	registryerrors "github.com/ishiyama1989/koutuhi/internal/registry/errors"
	"github.com/ishiyama1989/koutuhi/internal/shared/apperror"
	"github.com/ishiyama1989/koutuhi/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("registry.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("registry.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("registry request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	h.logger.Warn("http registry validation failed", zap.String("path", c.FullPath()), zap.Error(err))
	h.writeServiceError(c, apperror.MapValidationError(err))
}

func (h *Handler) ListPeople(c *gin.Context) {
	people, err := h.service.ListPeople(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	q := strings.TrimSpace(c.Query("q"))
	if q != "" {
		filtered := make([]Person, 0, len(people))
		for _, p := range people {
			if strings.Contains(p.Name, q) {
				filtered = append(filtered, p)
			}
		}
		people = filtered
	}

	meta := response.NewPaginationMeta(int64(len(people)), 1, len(people))
	response.Success(c, http.StatusOK, people, &meta)
}

func (h *Handler) GetPerson(c *gin.Context) {
	p, err := h.service.GetPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, nil)
}

func (h *Handler) CreatePerson(c *gin.Context) {
	var req PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	p, err := h.service.CreatePerson(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, nil)
}

func (h *Handler) UpdatePerson(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http update person", zap.String("person_id", id))
	var req PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	p, err := h.service.UpdatePerson(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, nil)
}

func (h *Handler) DeletePerson(c *gin.Context) {
	if err := h.service.DeletePerson(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ListPatterns(c *gin.Context) {
	patterns, err := h.service.ListPatterns(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, patterns, nil)
}

func (h *Handler) GetPattern(c *gin.Context) {
	p, err := h.service.GetPattern(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, nil)
}

func (h *Handler) CreatePattern(c *gin.Context) {
	var req PatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	p, err := h.service.CreatePattern(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, nil)
}

func (h *Handler) UpdatePattern(c *gin.Context) {
	var req PatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	p, err := h.service.UpdatePattern(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, nil)
}

func (h *Handler) DeletePattern(c *gin.Context) {
	if err := h.service.DeletePattern(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, s, nil)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	s, err := h.service.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, s, nil)
}

// Export serves the registry as a downloadable JSON document.
func (h *Handler) Export(c *gin.Context) {
	doc, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	filename := "commute-registry_" + time.Now().Format("2006-01-02") + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.IndentedJSON(http.StatusOK, doc)
}

// Import accepts either a multipart "file" field or a raw JSON body.
func (h *Handler) Import(c *gin.Context) {
	data, err := readImportBody(c)
	if err != nil || len(data) == 0 {
		h.writeServiceError(c, registryerrors.ErrInvalidImport)
		return
	}

	res, err := h.service.Import(c.Request.Context(), data)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func readImportBody(c *gin.Context) ([]byte, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return c.GetRawData()
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context()); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cleared": true}, nil)
}
