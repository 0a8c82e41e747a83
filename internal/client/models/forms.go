package models

// Attachment is an in-memory file part of a multipart submission.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type SignUpRequest struct {
	Username    string   `json:"username" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Roles       []string `json:"roles"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ReportForm is a new complaint. Latitude and Longitude are sent only when
// both are set.
type ReportForm struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	PhoneNumber string
	Address     string
	Location    string
	Title       string `validate:"required,complaint_title"`
	Description string `validate:"required"`
	Image       *Attachment
	Latitude    *float64
	Longitude   *float64
}

// ProfileUpdate carries the editable profile fields. Picture is optional;
// without it the multipart body has no picture part.
type ProfileUpdate struct {
	Name        string
	Email       string
	PhoneNumber string
	Address     string
	Role        string
	Bio         string
	Picture     *Attachment
}

// ComplaintTitles is the fixed catalogue offered by the complaint form.
var ComplaintTitles = []string{
	"Water Supply Issue",
	"Electricity Problem",
	"Garbage Collection",
	"Public Safety",
	"Noise Pollution",
	"Traffic Management",
	"Corruption",
	"Environment",
	"Public Nuisance",
}

func IsComplaintTitle(s string) bool {
	for _, t := range ComplaintTitles {
		if t == s {
			return true
		}
	}
	return false
}
