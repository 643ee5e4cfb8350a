package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tez-jumush/internal/core/cache"
	"tez-jumush/internal/service"
	"tez-jumush/internal/transport/http/middleware"
	resp "tez-jumush/internal/transport/http/response"
)

type ApplicationHandler struct {
	apps  *service.ApplicationService
	cache cache.Loader
}

func NewApplicationHandler(apps *service.ApplicationService, c cache.Loader) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, cache: c}
}

func (h *ApplicationHandler) invalidateJob(c *gin.Context, jobID string) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), jobCacheKey(jobID))
	}
}

type applyReq struct {
	JobID       string `json:"job_id"`
	CoverLetter string `json:"cover_letter"`
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req applyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	if req.JobID == "" {
		resp.BadRequest(c, "job_id is required")
		return
	}
	a, err := h.apps.Apply(c.GetString(middleware.CtxUserID), req.JobID, req.CoverLetter)
	if err != nil {
		resp.Err(c, err)
		return
	}
	h.invalidateJob(c, req.JobID)
	c.JSON(http.StatusCreated, gin.H{"application": a})
}

type setStatusReq struct {
	Status          string `json:"status"`
	EmployerComment string `json:"employer_comment"`
}

func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	var req setStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	a, err := h.apps.SetStatus(c.GetString(middleware.CtxUserID), c.Param("id"), req.Status, req.EmployerComment)
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": a})
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	jobID, err := h.apps.Withdraw(c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	h.invalidateJob(c, jobID)
	c.JSON(http.StatusOK, gin.H{"message": "application withdrawn"})
}

func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	apps, pg, err := h.apps.ListByApplicant(c.GetString(middleware.CtxUserID), c.Query("status"), page, limit)
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "pagination": pg})
}

func (h *ApplicationHandler) JobApplications(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	apps, pg, err := h.apps.ListByJob(c.GetString(middleware.CtxUserID), c.Param("jobId"), c.Query("status"), page, limit)
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "pagination": pg})
}

func (h *ApplicationHandler) EmployerStats(c *gin.Context) {
	stats, err := h.apps.EmployerStats(c.GetString(middleware.CtxUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ApplicationHandler) WorkerStats(c *gin.Context) {
	stats, err := h.apps.WorkerStats(c.GetString(middleware.CtxUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
