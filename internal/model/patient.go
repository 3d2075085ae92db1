package model

type Patient struct {
	Base
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Phone        string `json:"phone" db:"phone"`
}

type RegisterPatientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type UpdatePatientProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}
