package customer

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/response"
	"courtly/internal/pkg/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/user")
	{
		users.GET("/all", h.GetAllUsers)
		users.PUT("/:id", h.UpdateUser)
	}
}

func (h *Handler) GetAllUsers(c *gin.Context) {
	res, err := h.service.List(c.Request.Context(), c.Query("phoneNumber"), c.Query("search"), utils.Pagination(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	msg := "Users retrieved successfully"
	if res.Count == 0 {
		msg = "No users found"
	}
	response.Success(c, http.StatusOK, gin.H{
		"message":     msg,
		"data":        res.Customers,
		"count":       res.Count,
		"totalUsers":  res.Total,
		"totalPages":  res.TotalPages,
		"currentPage": res.Page,
	})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperr.Validation("", "Invalid request body"))
		return
	}

	cust, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "User updated successfully", "data": cust})
}
