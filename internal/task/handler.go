package task

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler 把任务服务暴露为HTTP接口
type Handler struct {
	service *Service
}

// NewHandler 创建任务模块的HTTP处理器
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createTaskRequest struct {
	UserID         uint   `json:"user_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	XPReward       int    `json:"xp_reward"`
	PlatinumReward int    `json:"platinum_reward"`
}

// Create 处理 POST /api/tasks
func (h *Handler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": "invalid_request"})
		return
	}
	t, err := h.service.Create(req.UserID, req.Name, req.XPReward, req.PlatinumReward)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": t})
}

// ListByUser 处理 GET /api/users/:id/tasks
func (h *Handler) ListByUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tasks, err := h.service.ListByUser(id)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks})
}

// Complete 处理 POST /api/tasks/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.service.Complete(id)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Delete 处理 DELETE /api/tasks/:id
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
		c.JSON(http.StatusOK, gin.H{"success": false, "reason": ReasonTaskNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type createRepeatRequest struct {
	UserID         uint   `json:"user_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	XPReward       int    `json:"xp_reward"`
	PlatinumReward int    `json:"platinum_reward"`
	MaxCompletions int    `json:"max_completions"`
}

// CreateRepeat 处理 POST /api/repeat-tasks
func (h *Handler) CreateRepeat(c *gin.Context) {
	var req createRepeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": "invalid_request"})
		return
	}
	t, err := h.service.CreateRepeat(req.UserID, req.Name, req.XPReward, req.PlatinumReward, req.MaxCompletions)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": t})
}

// ListRepeatByUser 处理 GET /api/users/:id/repeat-tasks
func (h *Handler) ListRepeatByUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tasks, err := h.service.ListRepeatByUser(id)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks})
}

type completeRepeatRequest struct {
	Times int `json:"times"`
}

// CompleteRepeat 处理 POST /api/repeat-tasks/:id/complete
// times缺省为1
func (h *Handler) CompleteRepeat(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req := completeRepeatRequest{Times: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": ReasonInvalidAmount})
			return
		}
	}
	res, err := h.service.CompleteRepeat(id, req.Times)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteRepeat 处理 DELETE /api/repeat-tasks/:id
func (h *Handler) DeleteRepeat(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleted, err := h.service.DeleteRepeat(id)
	if err != nil {
		storageError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusOK, gin.H{"success": false, "reason": ReasonTaskNotFound})
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
