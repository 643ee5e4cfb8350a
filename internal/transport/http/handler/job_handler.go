package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tez-jumush/internal/core/cache"
	"tez-jumush/internal/domain"
	"tez-jumush/internal/service"
	"tez-jumush/internal/transport/http/middleware"
	resp "tez-jumush/internal/transport/http/response"
)

const jobCacheTTL = 30 * time.Second

type JobHandler struct {
	jobs  *service.JobService
	cache cache.Loader // 可为 nil（测试或未配置 redis 时直连）
}

func NewJobHandler(jobs *service.JobService, c cache.Loader) *JobHandler {
	return &JobHandler{jobs: jobs, cache: c}
}

func jobCacheKey(id string) string { return "job:" + id }

func (h *JobHandler) invalidate(c *gin.Context, jobID string) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), jobCacheKey(jobID))
	}
}

func (h *JobHandler) List(c *gin.Context) {
	atoi := func(s string) int { n, _ := strconv.Atoi(s); return n }
	in := service.ListJobsInput{
		Category:       c.Query("category"),
		Location:       c.Query("location"),
		Search:         c.Query("search"),
		SalaryMin:      atoi(c.Query("salary_min")),
		SalaryMax:      atoi(c.Query("salary_max")),
		EmploymentType: c.Query("employment_type"),
		Urgency:        c.Query("urgency"),
		SortBy:         c.Query("sort_by"),
		SortOrder:      c.Query("sort_order"),
		Page:           atoi(c.Query("page")),
		Limit:          atoi(c.Query("limit")),
	}
	jobs, pg, err := h.jobs.List(in)
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "pagination": pg})
}

func (h *JobHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var j *domain.Job
	var err error
	if h.cache != nil {
		j, err = cache.GetOrLoadJSON[domain.Job](h.cache, c.Request.Context(), jobCacheKey(id), jobCacheTTL,
			func(context.Context) (*domain.Job, error) { return h.jobs.Get(id) })
	} else {
		j, err = h.jobs.Get(id)
	}
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": j})
}

func (h *JobHandler) Create(c *gin.Context) {
	var req service.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	j, err := h.jobs.Create(c.GetString(middleware.CtxUserID), req)
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": j})
}

type jobUpdateReq struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Salary         *string   `json:"salary"`
	Location       *string   `json:"location"`
	Phone          *string   `json:"phone"`
	Category       *string   `json:"category"`
	Urgency        *string   `json:"urgency"`
	EmploymentType *string   `json:"employment_type"`
	Requirements   *[]string `json:"requirements"`
	Employer       *string   `json:"employer"`
}

func (h *JobHandler) Update(c *gin.Context) {
	var req jobUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	j, err := h.jobs.Update(c.GetString(middleware.CtxUserID), c.Param("id"), service.JobUpdate{
		Title:          req.Title,
		Description:    req.Description,
		Salary:         req.Salary,
		Location:       req.Location,
		Phone:          req.Phone,
		Category:       req.Category,
		Urgency:        req.Urgency,
		EmploymentType: req.EmploymentType,
		Requirements:   req.Requirements,
		Employer:       req.Employer,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	h.invalidate(c, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"job": j})
}

func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobs.Delete(c.GetString(middleware.CtxUserID), c.Param("id")); err != nil {
		resp.Err(c, err)
		return
	}
	h.invalidate(c, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "job deleted"})
}

func (h *JobHandler) MyJobs(c *gin.Context) {
	jobs, err := h.jobs.ListByOwner(c.GetString(middleware.CtxUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}
