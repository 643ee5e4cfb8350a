package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tez-jumush/internal/core/auth"
	"tez-jumush/internal/domain"
	"tez-jumush/internal/service"
	resp "tez-jumush/internal/transport/http/response"
)

type AuthHandler struct {
	users *service.UserService
	jwter *auth.JWTer
}

func NewAuthHandler(users *service.UserService, jwter *auth.JWTer) *AuthHandler {
	return &AuthHandler{users: users, jwter: jwter}
}

type registerReq struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Phone        string   `json:"phone"`
	UserType     string   `json:"userType"`
	Photo        string   `json:"photo"`
	Age          int      `json:"age"`
	Skills       []string `json:"skills"`
	Experience   string   `json:"experience"`
	HasOtherJobs bool     `json:"hasOtherJobs"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	u, err := h.users.Register(service.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		Role:         req.UserType,
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
	h.respondWithToken(c, http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	u, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		resp.Err(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, u)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, u *domain.User) {
	token, err := h.jwter.Issue(u.ID, u.Email, u.Name, u.Role)
	if err != nil {
		resp.Internal(c, "could not issue token")
		return
	}
	c.JSON(status, gin.H{"token": token, "user": u})
}
