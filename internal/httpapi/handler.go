// Package httpapi implements the REST transport of the board service.
//
// Routes:
//
//	GET    /health
//	GET    /api/jobs                          → filtered, paginated job list
//	GET    /api/jobs/recommended?skills=a,b   → jobs matching any skill
//	GET    /api/jobs/:id                      → one job (counts a view)
//	GET    /api/jobs/:id/similar              → related jobs
//	POST   /api/jobs                          → post a job (x-user-id owns it)
//	PUT    /api/jobs/:id                      → partial update, owner only
//	DELETE /api/jobs/:id                      → owner only
//	POST   /api/jobs/:id/applications         → apply {resumeId?, coverLetter?}
//	GET    /api/jobs/:id/applications         → applications to a job, owner only
//	GET    /api/applications                  → the caller's applications
//	GET    /api/applications/:id
//	POST   /api/applications/:id/move         → {newStatus}, owner only
//	POST   /api/sessions                      → new filter session + page 1
//	GET    /api/sessions/:id                  → session state + current page
//	DELETE /api/sessions/:id
//	POST   /api/sessions/:id/toggle           → {dimension, value}
//	POST   /api/sessions/:id/text             → {query?, location?}
//	POST   /api/sessions/:id/posted-within    → {days|null}
//	POST   /api/sessions/:id/salary/preview   → {min, max}, no re-query
//	POST   /api/sessions/:id/salary/commit    → {min, max}?
//	POST   /api/sessions/:id/clear
//	POST   /api/sessions/:id/page             → {page}
//	POST   /api/profile/completion            → {user?, resume?}
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobverse/internal/applications"
	domainerrors "jobverse/internal/errors"
	"jobverse/internal/filter"
	"jobverse/internal/jobs"
	"jobverse/internal/model"
	"jobverse/internal/profile"
	"jobverse/internal/query"
)

// JobService is the application layer the handlers call.
type JobService interface {
	Search(ctx context.Context, c filter.Criteria, page, pageSize int) (query.Page, error)
	GetJob(ctx context.Context, id string) (model.JobRecord, error)
	Similar(ctx context.Context, id string, limit int) ([]model.JobRecord, error)
	Recommended(ctx context.Context, skills []string, limit int) ([]model.JobRecord, error)

	CreateJob(ctx context.Context, userID string, j model.JobRecord) (model.JobRecord, error)
	UpdateJob(ctx context.Context, id, userID string, patch model.JobPatch) (model.JobRecord, error)
	DeleteJob(ctx context.Context, id, userID string) error

	CreateSession(ctx context.Context) (jobs.SessionView, error)
	GetSession(ctx context.Context, id string) (jobs.SessionView, error)
	DeleteSession(ctx context.Context, id string) error
	Toggle(ctx context.Context, id, dimension, value string) (jobs.SessionView, error)
	SetText(ctx context.Context, id string, u jobs.TextUpdate) (jobs.SessionView, error)
	SetPostedWithin(ctx context.Context, id string, days *int) (jobs.SessionView, error)
	PreviewSalary(ctx context.Context, id string, r filter.SalaryRange) (jobs.SessionView, error)
	CommitSalary(ctx context.Context, id string, r *filter.SalaryRange) (jobs.SessionView, error)
	Clear(ctx context.Context, id string) (jobs.SessionView, error)
	SetPage(ctx context.Context, id string, page int) (jobs.SessionView, error)
}

// ApplicationService tracks job applications.
type ApplicationService interface {
	Apply(ctx context.Context, userID, jobID string, req applications.ApplyRequest) (applications.Application, error)
	Move(ctx context.Context, userID, id, newStatus string) (applications.Application, error)
	Get(ctx context.Context, userID, id string) (applications.Application, error)
	ListForUser(ctx context.Context, userID string) ([]applications.Application, error)
	ListForJob(ctx context.Context, userID, jobID string) ([]applications.Application, error)
}

// userHeader carries the caller's identity, set by the upstream gateway.
const userHeader = "x-user-id"

// Handler holds shared dependencies.
type Handler struct {
	svc     JobService
	apps    ApplicationService
	logger  *zap.Logger
	version string
}

// NewHandler returns a configured Handler.
func NewHandler(svc JobService, apps ApplicationService, logger *zap.Logger, version string) *Handler {
	return &Handler{svc: svc, apps: apps, logger: logger, version: version}
}

// NewRouter returns a gin engine with logging, recovery, any extra
// middleware and every route.
func NewRouter(h *Handler, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(LoggerMiddleware(h.logger), gin.Recovery())
	r.Use(extra...)
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts all board-service routes on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.health)

	api := r.Group("/api")

	api.GET("/jobs", h.listJobs)
	api.GET("/jobs/recommended", h.recommended)
	api.GET("/jobs/:id", h.getJob)
	api.GET("/jobs/:id/similar", h.similar)
	api.POST("/jobs", h.createJob)
	api.PUT("/jobs/:id", h.updateJob)
	api.DELETE("/jobs/:id", h.deleteJob)
	api.POST("/jobs/:id/applications", h.apply)
	api.GET("/jobs/:id/applications", h.listJobApplications)

	api.GET("/applications", h.listMyApplications)
	api.GET("/applications/:id", h.getApplication)
	api.POST("/applications/:id/move", h.moveApplication)

	s := api.Group("/sessions")
	s.POST("", h.createSession)
	s.GET("/:id", h.getSession)
	s.DELETE("/:id", h.deleteSession)
	s.POST("/:id/toggle", h.toggle)
	s.POST("/:id/text", h.setText)
	s.POST("/:id/posted-within", h.setPostedWithin)
	s.POST("/:id/salary/preview", h.previewSalary)
	s.POST("/:id/salary/commit", h.commitSalary)
	s.POST("/:id/clear", h.clear)
	s.POST("/:id/page", h.setPage)

	api.POST("/profile/completion", h.profileCompletion)
}

// ─── Jobs ────────────────────────────────────────────────────────────────────

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "board-service",
		"version": h.version,
	})
}

func (h *Handler) listJobs(c *gin.Context) {
	crit, err := criteriaFromQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	page, pageSize, err := pageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.svc.Search(c.Request.Context(), crit, page, pageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) getJob(c *gin.Context) {
	job, err := h.svc.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) similar(c *gin.Context) {
	out, err := h.svc.Similar(c.Request.Context(), c.Param("id"), query.DefaultSuggestionLimit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

func (h *Handler) recommended(c *gin.Context) {
	out, err := h.svc.Recommended(c.Request.Context(), listParam(c, "skills"), query.DefaultSuggestionLimit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

func (h *Handler) createJob(c *gin.Context) {
	var body model.JobRecord
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	job, err := h.svc.CreateJob(c.Request.Context(), c.GetHeader(userHeader), body)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *Handler) updateJob(c *gin.Context) {
	var body model.JobPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	job, err := h.svc.UpdateJob(c.Request.Context(), c.Param("id"), c.GetHeader(userHeader), body)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) deleteJob(c *gin.Context) {
	if err := h.svc.DeleteJob(c.Request.Context(), c.Param("id"), c.GetHeader(userHeader)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Applications ────────────────────────────────────────────────────────────

// apply accepts an empty body.
func (h *Handler) apply(c *gin.Context) {
	var body applications.ApplyRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid JSON body")
		return
	}
	a, err := h.apps.Apply(c.Request.Context(), c.GetHeader(userHeader), c.Param("id"), body)
	h.writeApplication(c, http.StatusCreated, a, err)
}

func (h *Handler) listJobApplications(c *gin.Context) {
	out, err := h.apps.ListForJob(c.Request.Context(), c.GetHeader(userHeader), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": out})
}

func (h *Handler) listMyApplications(c *gin.Context) {
	out, err := h.apps.ListForUser(c.Request.Context(), c.GetHeader(userHeader))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": out})
}

func (h *Handler) getApplication(c *gin.Context) {
	a, err := h.apps.Get(c.Request.Context(), c.GetHeader(userHeader), c.Param("id"))
	h.writeApplication(c, http.StatusOK, a, err)
}

func (h *Handler) moveApplication(c *gin.Context) {
	var body struct {
		NewStatus string `json:"newStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "body must contain newStatus")
		return
	}
	a, err := h.apps.Move(c.Request.Context(), c.GetHeader(userHeader), c.Param("id"), body.NewStatus)
	h.writeApplication(c, http.StatusOK, a, err)
}

// ─── Sessions ────────────────────────────────────────────────────────────────

func (h *Handler) createSession(c *gin.Context) {
	v, err := h.svc.CreateSession(c.Request.Context())
	h.writeView(c, http.StatusCreated, v, err)
}

func (h *Handler) getSession(c *gin.Context) {
	v, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	h.writeView(c, http.StatusOK, v, err)
}

func (h *Handler) deleteSession(c *gin.Context) {
	if err := h.svc.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) toggle(c *gin.Context) {
	var body struct {
		Dimension string `json:"dimension" binding:"required"`
		Value     string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "dimension and value are required")
		return
	}
	v, err := h.svc.Toggle(c.Request.Context(), c.Param("id"), body.Dimension, body.Value)
	h.writeView(c, http.StatusOK, v, err)
}

func (h *Handler) setText(c *gin.Context) {
	var body jobs.TextUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	v, err := h.svc.SetText(c.Request.Context(), c.Param("id"), body)
	h.writeView(c, http.StatusOK, v, err)
}

func (h *Handler) setPostedWithin(c *gin.Context) {
	var body struct {
		Days *int `json:"days"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "days must be an integer or null")
		return
	}
	v, err := h.svc.SetPostedWithin(c.Request.Context(), c.Param("id"), body.Days)
	h.writeView(c, http.StatusOK, v, err)
}

func (h *Handler) previewSalary(c *gin.Context) {
	var body filter.SalaryRange
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "min and max must be integers")
		return
	}
	v, err := h.svc.PreviewSalary(c.Request.Context(), c.Param("id"), body)
	h.writeView(c, http.StatusOK, v, err)
}

// commitSalary accepts an empty body, which commits the last preview.
func (h *Handler) commitSalary(c *gin.Context) {
	var body *filter.SalaryRange
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "min and max must be integers")
		return
	}
	v, err := h.svc.CommitSalary(c.Request.Context(), c.Param("id"), body)
	h.writeView(c, http.StatusOK, v, err)
}

func (h *Handler) clear(c *gin.Context) {
	v, err := h.svc.Clear(c.Request.Context(), c.Param("id"))
	h.writeView(c, http.StatusOK, v, err)
}

func (h *Handler) setPage(c *gin.Context) {
	var body struct {
		Page *int `json:"page"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Page == nil {
		badRequest(c, "page must be an integer")
		return
	}
	v, err := h.svc.SetPage(c.Request.Context(), c.Param("id"), *body.Page)
	h.writeView(c, http.StatusOK, v, err)
}

// ─── Profile ─────────────────────────────────────────────────────────────────

func (h *Handler) profileCompletion(c *gin.Context) {
	var body struct {
		User   *profile.User   `json:"user"`
		Resume *profile.Resume `json:"resume"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	c.JSON(http.StatusOK, gin.H{"completion": profile.Completion(body.User, body.Resume)})
}

// ─── Response helpers ────────────────────────────────────────────────────────

func (h *Handler) writeApplication(c *gin.Context, status int, a applications.Application, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, a)
}

func (h *Handler) writeView(c *gin.Context, status int, v jobs.SessionView, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, v)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

// writeError maps a domain error type to an HTTP status. Internal details
// are logged, never returned.
func (h *Handler) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch domainerrors.TypeOf(err) {
	case domainerrors.ErrTypeNotFound:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": domainerrors.MessageOf(err)})
	case domainerrors.ErrTypeInvalidInput:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": domainerrors.MessageOf(err)})
	case domainerrors.ErrTypeConflict:
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": domainerrors.MessageOf(err)})
	case domainerrors.ErrTypeForbidden:
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": domainerrors.MessageOf(err)})
	case domainerrors.ErrTypeUnauthorized:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domainerrors.MessageOf(err)})
	case domainerrors.ErrTypeUnavailable:
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
