package model

// Doctor is an admin-managed practitioner record
type Doctor struct {
	Base
	Email     string `json:"email" db:"email"`
	Name      string `json:"name" db:"name"`
	Specialty string `json:"specialty" db:"specialty"`
}

type CreateDoctorRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty" binding:"required"`
}
