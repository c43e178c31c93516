package dto

type RegisterUserRequest struct {
	Email    string `form:"email" validate:"required,email,max=100"`
	Password string `form:"password" validate:"required,max=72"`
	Name     string `form:"name" validate:"required,max=250"`
}

type LoginUserRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}
