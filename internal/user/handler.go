package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler 把用户服务暴露为HTTP接口
type Handler struct {
	service *Service
}

// NewHandler 创建用户模块的HTTP处理器
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List 处理 GET /api/users
func (h *Handler) List(c *gin.Context) {
	users, err := h.service.Users()
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// Get 处理 GET /api/users/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.service.Get(id)
	if err != nil {
		storageError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "reason": ReasonUserNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

type createRequest struct {
	Name string `json:"name"`
}

// Create 处理 POST /api/users
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": ReasonEmptyName})
		return
	}
	res, err := h.service.Create(req.Name)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Delete 处理 DELETE /api/users/:id
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
		c.JSON(http.StatusOK, gin.H{"success": false, "reason": ReasonUserNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type exchangeRequest struct {
	Amount int `json:"amount"`
}

// Exchange 处理 POST /api/users/:id/exchange
func (h *Handler) Exchange(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": ReasonInvalidAmount})
		return
	}
	res, err := h.service.ExchangePlatinum(id, req.Amount)
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// parseID 解析路径中的 :id 参数
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": "invalid_id"})
		return 0, false
	}
	return uint(id), true
}

// storageError 统一处理非预期的持久化错误
func storageError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "reason": "storage_error"})
}
