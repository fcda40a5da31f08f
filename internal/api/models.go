package api

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// TokenRequest carries the credentials for the token endpoint. It is read
// from a form body or, failing that, from JSON.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse defines the successful response of the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TaskRequest defines the payload for creating or replacing a task.
// Title and description must be present but may be empty strings.
type TaskRequest struct {
	Title       *string `json:"title"       validate:"required"`
	Description *string `json:"description" validate:"required"`
	Status      string  `json:"status"      validate:"required,oneof=todo in_progress done"`
}

// RegisterResponse confirms a registration.
type RegisterResponse struct {
	StatusCode  int    `json:"status_code"`
	Transaction string `json:"transaction"`
	UserID      int64  `json:"user_id"`
}

// CreateTaskResponse confirms a task creation.
type CreateTaskResponse struct {
	StatusCode  int    `json:"status_code"`
	Transaction string `json:"transaction"`
	TaskID      int64  `json:"task_id"`
}

// TransactionResponse confirms an update or delete.
type TransactionResponse struct {
	StatusCode  int    `json:"status_code"`
	Transaction string `json:"transaction"`
}

// DetailResponse confirms a permission change.
type DetailResponse struct {
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}

// Messages returned in success bodies.
const (
	msgRegistered  = "Successful"
	msgTaskCreated = "Task create is successful"
	msgTaskUpdated = "Task update is successful"
	msgTaskDeleted = "Task delete is successful"
	msgUserUpdated = "User update"
)
