package handler

type registerRequest struct {
	Login    string `json:"login"    validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=client specialist admin"`
}

type loginRequest struct {
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Login   string `json:"login"`
	Role    string `json:"role"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Login   string `json:"login"`
	Token   string `json:"token"`
	Role    string `json:"role"`
}

type cabinetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Login   string `json:"login"`
	Role    string `json:"role"`
}
