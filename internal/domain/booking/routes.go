package booking

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /slot and /bookings on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	slots := rg.Group("/slot")
	{
		slots.POST("/book", h.BookSlot)
		slots.GET("/booked/:courtId", h.BookedSlots)
		slots.POST("/cancel/:bookingId", h.CancelBooking)
		slots.POST("/renew/:bookingId", h.RenewSlot)
		slots.GET("/available/:courtId", h.AvailableSlots)
	}

	bookings := rg.Group("/bookings")
	{
		bookings.GET("/latest-booking", h.LatestBookings)
		bookings.GET("/full-booking", h.FullBookingHistory)
	}
}
