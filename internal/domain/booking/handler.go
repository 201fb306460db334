package booking

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

func (h *Handler) BookSlot(c *gin.Context) {
	var req BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperr.Validation("", "Invalid request body"))
		return
	}
	cmd, err := req.Command(h.service.Rules())
	if err != nil {
		response.FromError(c, err)
		return
	}

	booking, err := h.service.Book(c.Request.Context(), cmd)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Slots booked successfully", "booking": booking})
}

func (h *Handler) RenewSlot(c *gin.Context) {
	parentID, err := utils.ParamUUID(c, "bookingId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req RenewSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperr.Validation("", "Invalid request body"))
		return
	}
	cmd, err := req.Command(h.service.Rules())
	if err != nil {
		response.FromError(c, err)
		return
	}

	booking, err := h.service.Renew(c.Request.Context(), parentID, cmd)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Renewal booking created successfully", "booking": booking})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := utils.ParamUUID(c, "bookingId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	booking, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Booking cancelled successfully", "booking": booking})
}

func (h *Handler) BookedSlots(c *gin.Context) {
	courtID, err := utils.ParamUUID(c, "courtId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	board, err := h.service.BookedSlots(c.Request.Context(), courtID, c.Query("date"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, board)
}

func (h *Handler) AvailableSlots(c *gin.Context) {
	courtID, err := utils.ParamUUID(c, "courtId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), courtID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Available slots fetched successfully", "data": slots})
}

func historyQuery(c *gin.Context) HistoryQuery {
	return HistoryQuery{
		CourtID:   c.Query("courtId"),
		Status:    c.Query("status"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Search:    c.Query("search"),
		Page:      utils.Pagination(c),
	}
}

func (h *Handler) LatestBookings(c *gin.Context) {
	page, err := h.service.Latest(c.Request.Context(), historyQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Latest bookings fetched successfully", "history": page})
}

func (h *Handler) FullBookingHistory(c *gin.Context) {
	page, err := h.service.History(c.Request.Context(), historyQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Booking history fetched successfully", "history": page})
}
