package membership

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
	gym := rg.Group("/gym")
	{
		gym.POST("/user", h.Register)
		gym.GET("/all-users", h.List)
		gym.GET("/single-user/:id", h.Get)
		gym.DELETE("/delete/:id", h.Delete)
		gym.GET("/payment-history", h.PaymentHistory)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperr.Validation("", "Invalid request body"))
		return
	}
	cmd, err := req.Command(h.service.Location(), h.service.Now())
	if err != nil {
		response.FromError(c, err)
		return
	}

	member, err := h.service.Register(c.Request.Context(), cmd)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "User registered successfully with gym subscription", "user": member})
}

func (h *Handler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), ListQuery{
		Search:      c.Query("search"),
		Status:      c.Query("status"),
		TrainerName: c.Query("trainerName"),
		UserType:    c.Query("userType"),
		Order:       c.Query("order"),
		Page:        utils.Pagination(c),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	member, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Gym user fetched successfully", "user": member})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Gym user deleted successfully"})
}

func (h *Handler) PaymentHistory(c *gin.Context) {
	page, err := h.service.PaymentHistory(c.Request.Context(), PaymentQuery{
		MemberID:  c.Query("userId"),
		Search:    c.Query("search"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Latest:    c.Query("latest") == "true",
		Status:    c.Query("status"),
		Page:      utils.Pagination(c),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}
