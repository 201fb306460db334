package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

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
	billings := rg.Group("/billings")
	{
		billings.GET("/court-payment-history/:id", h.CourtPaymentHistory)
		billings.GET("/payment-history", h.PaymentHistory)
	}
}

func queryFrom(c *gin.Context) Query {
	return Query{
		CourtID:   c.Query("courtId"),
		Search:    c.Query("search"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Page:      utils.Pagination(c),
	}
}

func (h *Handler) CourtPaymentHistory(c *gin.Context) {
	courtID, err := utils.ParamUUID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	page, err := h.service.ByCourt(c.Request.Context(), courtID, queryFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Payment history fetched successfully", "history": page})
}

func (h *Handler) PaymentHistory(c *gin.Context) {
	page, err := h.service.History(c.Request.Context(), queryFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Payment history fetched successfully", "history": page})
}
