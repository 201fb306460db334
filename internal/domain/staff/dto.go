package staff

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone10"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Role        Role   `json:"role" validate:"required,oneof=admin receptionist trainer"`
}

var loginMessages = map[string]string{
	"email":    "Valid email is required",
	"password": "Password is required",
}

var createMessages = map[string]string{
	"name":        "Name is required (max 50 chars)",
	"email":       "Valid email is required",
	"phoneNumber": "Phone number must be 10 digits",
	"password":    "Password must be 8 to 72 characters",
	"role":        "Role must be admin, receptionist, or trainer",
}

type LoginResult struct {
	Token string `json:"token"`
	Staff *Staff `json:"user"`
}
