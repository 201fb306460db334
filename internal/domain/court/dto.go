package court

type CreateCourtRequest struct {
	CourtName  string `json:"courtName" validate:"required,max=100"`
	Surface    string `json:"surface" validate:"omitempty,max=50"`
	TotalSlots int    `json:"totalSlots" validate:"required,gt=0"`
}

var createMessages = map[string]string{
	"courtName.required":  "Court name is required",
	"courtName.max":       "Court name too long (max 100 chars)",
	"surface":             "Surface too long (max 50 chars)",
	"totalSlots.required": "Total slots must be greater than 0",
	"totalSlots":          "Total slots must be greater than 0",
}

// UpdateCourtRequest carries only the fields being changed.
type UpdateCourtRequest struct {
	CourtName  *string `json:"courtName" validate:"omitempty,min=1,max=100"`
	Surface    *string `json:"surface" validate:"omitempty,min=1,max=50"`
	TotalSlots *int    `json:"totalSlots" validate:"omitempty,gt=0"`
}

var updateMessages = map[string]string{
	"courtName":  "Court name must be 1-100 chars",
	"surface":    "Surface must be 1-50 chars",
	"totalSlots": "Total slots must be greater than 0",
}

type MonthlyFigure struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

type Statistics struct {
	TotalBookings     int64           `json:"totalBookings"`
	CancelledBookings int64           `json:"cancelledBookings"`
	TotalRevenue      float64         `json:"totalRevenue"`
	MonthlyBookings   []MonthlyFigure `json:"monthlyBookings"`
	MonthlyRevenue    []MonthlyFigure `json:"monthlyRevenue"`
}
