package court

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /Court. adminOnly guards mutations and statistics.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	courts := rg.Group("/Court")
	{
		courts.GET("/fetchCourts", h.FetchCourts)
		courts.POST("/createCourt", adminOnly, h.CreateCourt)
		courts.PUT("/editCourt/:id", adminOnly, h.EditCourt)
		courts.DELETE("/deleteCourt/:id", adminOnly, h.DeleteCourt)
		courts.GET("/full-statistics", adminOnly, h.FullStatistics)
	}
}
