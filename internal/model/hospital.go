package model

// HospitalType is the fixed facility classification
type HospitalType string

const (
	HospitalTypeGovernment HospitalType = "Government"
	HospitalTypePrivate    HospitalType = "Private"
	HospitalTypeCommunity  HospitalType = "Community"
)

// Valid reports whether t is one of the known hospital types
func (t HospitalType) Valid() bool {
	switch t {
	case HospitalTypeGovernment, HospitalTypePrivate, HospitalTypeCommunity:
		return true
	}
	return false
}

type Hospital struct {
	Base
	Name        string       `json:"name" db:"name"`
	Email       string       `json:"email" db:"email"`
	Phone       string       `json:"phone" db:"phone"`
	Type        HospitalType `json:"type" db:"type"`
	Address     `json:"address"`
	ImageURL    string       `json:"image" db:"image_url"`
	Description string       `json:"description" db:"description"`
	Active      bool         `json:"active" db:"active"`
}

type CreateHospitalRequest struct {
	Name        string `form:"name" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
	Phone       string `form:"phone" binding:"required,min=10"`
	Type        string `form:"type" binding:"required,hospitaltype"`
	Line1       string `form:"address_line1" binding:"required"`
	Line2       string `form:"address_line2"`
	Description string `form:"description"`
}

type UpdateHospitalRequest struct {
	Name        *string `form:"name"`
	Email       *string `form:"email"`
	Phone       *string `form:"phone"`
	Type        *string `form:"type" binding:"omitempty,hospitaltype"`
	Line1       *string `form:"address_line1"`
	Line2       *string `form:"address_line2"`
	Description *string `form:"description"`
	Active      *bool   `form:"active"`
}
