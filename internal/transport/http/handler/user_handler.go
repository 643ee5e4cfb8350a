package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tez-jumush/internal/core/cache"
	"tez-jumush/internal/service"
	"tez-jumush/internal/transport/http/middleware"
	resp "tez-jumush/internal/transport/http/response"
)

type UserHandler struct {
	users *service.UserService
	cache cache.Loader
}

func NewUserHandler(users *service.UserService, c cache.Loader) *UserHandler {
	return &UserHandler{users: users, cache: c}
}

func (h *UserHandler) Me(c *gin.Context) {
	u, stats, err := h.users.Profile(c.GetString(middleware.CtxUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "stats": stats})
}

type updateProfileReq struct {
	Name         *string   `json:"name"`
	Phone        *string   `json:"phone"`
	Photo        *string   `json:"photo"`
	Age          *int      `json:"age"`
	Skills       *[]string `json:"skills"`
	Experience   *string   `json:"experience"`
	HasOtherJobs *bool     `json:"hasOtherJobs"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	u, err := h.users.UpdateProfile(c.GetString(middleware.CtxUserID), service.ProfileUpdate{
		Name:         req.Name,
		Phone:        req.Phone,
		Photo:        req.Photo,
		Age:          req.Age,
		Skills:       req.Skills,
		Experience:   req.Experience,
		HasOtherJobs: req.HasOtherJobs,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type photoReq struct {
	Photo string `json:"photo"`
}

func (h *UserHandler) UploadPhoto(c *gin.Context) {
	var req photoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	if err := h.users.SetPhoto(c.GetString(middleware.CtxUserID), req.Photo); err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo updated"})
}

func (h *UserHandler) DeletePhoto(c *gin.Context) {
	if err := h.users.ClearPhoto(c.GetString(middleware.CtxUserID)); err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo removed"})
}

func (h *UserHandler) PublicProfile(c *gin.Context) {
	p, err := h.users.GetPublicProfile(c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	jobIDs, err := h.users.DeleteAccount(c.GetString(middleware.CtxUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	if h.cache != nil && len(jobIDs) > 0 {
		keys := make([]string, len(jobIDs))
		for i, id := range jobIDs {
			keys[i] = jobCacheKey(id)
		}
		h.cache.Invalidate(c.Request.Context(), keys...)
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
