package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler { return &HealthHandler{db: db} }

func (h *HealthHandler) Health(c *gin.Context) {
	ok := false
	if h.db != nil {
		if sqlDB, err := h.db.DB(); err == nil {
			ok = sqlDB.PingContext(c.Request.Context()) == nil
		}
	}
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "degraded", "db": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": true})
}
