package gacha

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler 把抽卡服务暴露为HTTP接口
type Handler struct {
	service *Service
}

// NewHandler 创建抽卡模块的HTTP处理器
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type drawRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// Draw 处理 POST /api/gacha/draw
func (h *Handler) Draw(c *gin.Context) {
	var req drawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": "invalid_request"})
		return
	}
	res, err := h.service.Draw(req.UserID)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DrawTen 处理 POST /api/gacha/draw10
func (h *Handler) DrawTen(c *gin.Context) {
	var req drawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": "invalid_request"})
		return
	}
	res, err := h.service.DrawTen(req.UserID)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListItems 处理 GET /api/gacha/items
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.service.Items()
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

type addItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Star        int    `json:"star" binding:"required"`
	Description string `json:"description"`
}

// AddItem 处理 POST /api/gacha/items
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": "invalid_request"})
		return
	}
	item, reason, err := h.service.AddItem(req.Name, req.Star, req.Description)
	if err != nil {
		storageError(c, err)
		return
	}
	if reason != "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "reason": reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item": item})
}

// DeleteItem 处理 DELETE /api/gacha/items/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleted, err := h.service.DeleteItem(id)
	if err != nil {
		storageError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusOK, gin.H{"success": false, "reason": ReasonItemNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Records 处理 GET /api/users/:id/gacha/records
func (h *Handler) Records(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	records, err := h.service.RecentRecords(id, limit)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "records": records})
}

// Stats 处理 GET /api/users/:id/gacha/stats
func (h *Handler) Stats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	stats, err := h.service.StatsFor(id)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
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
