package reward

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler 把商店服务暴露为HTTP接口
type Handler struct {
	service *Service
}

// NewHandler 创建商店模块的HTTP处理器
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	UserID       uint   `json:"user_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Price        int    `json:"price"`
	CurrencyType string `json:"currency_type"`
}

// Create 处理 POST /api/rewards
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": "invalid_request"})
		return
	}
	r, reason, err := h.service.Create(req.UserID, req.Name, req.Price, req.CurrencyType)
	if err != nil {
		storageError(c, err)
		return
	}
	if reason != "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "reason": reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reward": r})
}

// ListByUser 处理 GET /api/users/:id/rewards
func (h *Handler) ListByUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rewards, err := h.service.ListByUser(id)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rewards": rewards})
}

// Redeem 处理 POST /api/rewards/:id/redeem
func (h *Handler) Redeem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.service.Redeem(id)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Delete 处理 DELETE /api/rewards/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleted, err := h.service.Delete(id)
	if err != nil {
		storageError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusOK, gin.H{"success": false, "reason": ReasonRewardNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": "invalid_id"})
		return 0, false
	}
	return uint(id), true
}

func storageError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "reason": "storage_error"})
}
