package model

import "github.com/lib/pq"

// Doctor is a bookable practitioner. HospitalIDs holds references into
// the hospitals table; the store does not enforce them, deletion logic
// does (see hospital cascade).
type Doctor struct {
	Base
	Name         string         `json:"name" db:"name"`
	Email        string         `json:"email,omitempty" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Speciality   string         `json:"speciality" db:"speciality"`
	Degree       string         `json:"degree" db:"degree"`
	Experience   string         `json:"experience" db:"experience"`
	About        string         `json:"about" db:"about"`
	Fees         float64        `json:"fees" db:"fees"`
	Address      `json:"address"`
	ImageURL     string         `json:"image" db:"image_url"`
	Available    bool           `json:"available" db:"available"`
	HospitalIDs  pq.StringArray `json:"hospital_ids" db:"hospital_ids"`
}

// DoctorDetail is the expanded API representation: hospital references
// resolved into full records for the detail and admin-list views.
type DoctorDetail struct {
	Doctor
	Hospitals []*Hospital `json:"hospitals"`
}

type CreateDoctorRequest struct {
	Name        string   `form:"name" binding:"required"`
	Email       string   `form:"email" binding:"required,email"`
	Password    string   `form:"password" binding:"required,min=8"`
	Speciality  string   `form:"speciality" binding:"required"`
	Degree      string   `form:"degree" binding:"required"`
	Experience  string   `form:"experience" binding:"required"`
	About       string   `form:"about" binding:"required"`
	Fees        float64  `form:"fees" binding:"min=0"`
	Line1       string   `form:"address_line1" binding:"required"`
	Line2       string   `form:"address_line2"`
	HospitalIDs []string `form:"hospitals"`
}

type UpdateDoctorRequest struct {
	Name        *string   `form:"name"`
	Email       *string   `form:"email"`
	Speciality  *string   `form:"speciality"`
	Degree      *string   `form:"degree"`
	Experience  *string   `form:"experience"`
	About       *string   `form:"about"`
	Fees        *float64  `form:"fees"`
	Line1       *string   `form:"address_line1"`
	Line2       *string   `form:"address_line2"`
	HospitalIDs *[]string `form:"hospitals"`
}

type UpdateDoctorProfileRequest struct {
	Fees      *float64 `json:"fees"`
	About     *string  `json:"about"`
	Line1     *string  `json:"address_line1"`
	Line2     *string  `json:"address_line2"`
	Available *bool    `json:"available"`
}
