package models

import (
	"github.com/thedirecttree/directory-gateway/pkg/validator"
)

// ValidationErrors lists the fields a form rejected before any network call
type ValidationErrors = validator.ValidationErrors

// FieldError is one rejected field
type FieldError = validator.FieldError

var (
	formValidator = newFormValidator()
	phones        = validator.NewPhoneValidator()
)

func newFormValidator() *validator.FormValidator {
	v := validator.NewFormValidator()
	rules := map[string][]string{
		"island":            Islands,
		"business_category": BusinessCategories,
		"property_type":     PropertyTypes,
		"furnishing":        FurnishingOptions,
		"amenity":           AmenityOptions,
		"utility":           UtilityOptions,
		"lease_duration":    LeaseDurationTerms,
	}
	for tag, options := range rules {
		if err := v.RegisterOptions(tag, options); err != nil {
			panic(err)
		}
	}
	return v
}

// RegisterForm is the account sign-up form. The agreement flags are checked
// here and never forwarded to the backend.
type RegisterForm struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=128"`
	FirstName     string `json:"first_name" validate:"required,max=100"`
	LastName      string `json:"last_name" validate:"required,max=100"`
	Role          Role   `json:"role" validate:"required,oneof=customer business_owner"`
	Phone         string `json:"phone" validate:"omitempty,bs_phone"`
	AcceptTerms   bool   `json:"accept_terms" validate:"eq=true"`
	AcceptPrivacy bool   `json:"accept_privacy" validate:"eq=true"`
}

// Validate checks the form against its schema
func (f *RegisterForm) Validate() error { return formValidator.Struct(f) }

// RegisterRequest is the body sent to POST /register
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
	Phone     string `json:"phone,omitempty"`
}

// Request strips the client-only agreement flags and formats the phone as
// (242) XXX-XXXX when it parses
func (f *RegisterForm) Request() RegisterRequest {
	phone := f.Phone
	if formatted, err := phones.Format(phone); err == nil {
		phone = formatted
	}
	return RegisterRequest{
		Email:     f.Email,
		Password:  f.Password,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Role:      f.Role,
		Phone:     phone,
	}
}

// LoginForm is the sign-in form
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the form against its schema
func (f *LoginForm) Validate() error { return formValidator.Struct(f) }

// BusinessForm is the owner onboarding form sent to POST /business/create
type BusinessForm struct {
	BusinessName        string `json:"business_name" validate:"required,max=200"`
	Description         string `json:"description" validate:"required,max=5000"`
	Category            string `json:"category" validate:"required,business_category"`
	Island              string `json:"island" validate:"required,island"`
	Address             string `json:"address" validate:"required"`
	LicenseNumber       string `json:"license_number" validate:"required,max=64"`
	Phone               string `json:"phone" validate:"required,bs_phone"`
	Email               string `json:"email" validate:"required,email"`
	Website             string `json:"website,omitempty" validate:"omitempty,url"`
	AcceptsAppointments bool   `json:"accepts_appointments"`
	AppointmentDuration int    `json:"appointment_duration,omitempty" validate:"omitempty,min=15,max=480"`
}

// Validate checks the form against its schema
func (f *BusinessForm) Validate() error { return formValidator.Struct(f) }

// ApartmentForm is the apartment listing form sent to POST /apartment/create
type ApartmentForm struct {
	Title             string   `json:"title" validate:"required,max=200"`
	Description       string   `json:"description" validate:"required,max=5000"`
	Address           string   `json:"address" validate:"required"`
	Island            string   `json:"island" validate:"required,island"`
	Bedrooms          int      `json:"bedrooms" validate:"min=0,max=20"`
	Bathrooms         float64  `json:"bathrooms" validate:"min=0,max=20"`
	MonthlyRent       float64  `json:"monthly_rent" validate:"gt=0"`
	PropertyType      string   `json:"property_type" validate:"required,property_type"`
	Furnishing        string   `json:"furnishing" validate:"required,furnishing"`
	Amenities         []string `json:"amenities" validate:"unique,dive,amenity"`
	UtilitiesIncluded []string `json:"utilities_included" validate:"unique,dive,utility"`
	LeaseDuration     string   `json:"lease_duration" validate:"required,lease_duration"`
	AvailableDate     string   `json:"available_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ContactName       string   `json:"contact_name" validate:"required"`
	ContactEmail      string   `json:"contact_email" validate:"required,email"`
	ContactPhone      string   `json:"contact_phone" validate:"required,bs_phone"`
}

// Validate checks the form against its schema
func (f *ApartmentForm) Validate() error { return formValidator.Struct(f) }

// NewApartmentForm returns the form with the defaults the listing page starts from
func NewApartmentForm() ApartmentForm {
	return ApartmentForm{
		Bedrooms:          1,
		Bathrooms:         1,
		PropertyType:      "Apartment",
		Furnishing:        "Unfurnished",
		LeaseDuration:     "Negotiable",
		Amenities:         []string{},
		UtilitiesIncluded: []string{},
	}
}

// EventForm is the event listing form sent to POST /event/create.
// Event categories come from /event-categories at runtime, so only presence is checked.
type EventForm struct {
	Title          string  `json:"title" validate:"required,max=200"`
	Description    string  `json:"description" validate:"required,max=5000"`
	Category       string  `json:"category" validate:"required"`
	Island         string  `json:"island" validate:"required,island"`
	Location       string  `json:"location" validate:"required"`
	EventDate      string  `json:"event_date" validate:"required,datetime=2006-01-02"`
	StartTime      string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime        string  `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	OrganizerName  string  `json:"organizer_name" validate:"required"`
	OrganizerEmail string  `json:"organizer_email" validate:"required,email"`
	OrganizerPhone string  `json:"organizer_phone,omitempty" validate:"omitempty,bs_phone"`
	TicketPrice    float64 `json:"ticket_price,omitempty" validate:"min=0"`
	TicketLink     string  `json:"ticket_link,omitempty" validate:"omitempty,url"`
}

// Validate checks the form against its schema
func (f *EventForm) Validate() error { return formValidator.Struct(f) }

// ReviewForm is sent to POST /review/create
type ReviewForm struct {
	BusinessID   string `json:"business_id" validate:"required"`
	Rating       int    `json:"rating" validate:"min=1,max=5"`
	Comment      string `json:"comment" validate:"required,max=2000"`
	IsAnonymous  bool   `json:"is_anonymous"`
	CustomerName string `json:"customer_name,omitempty" validate:"max=100"`
}

// Validate checks the form against its schema
func (f *ReviewForm) Validate() error { return formValidator.Struct(f) }

// AppointmentForm is sent to POST /appointment/create
type AppointmentForm struct {
	BusinessID      string `json:"business_id" validate:"required"`
	AppointmentDate string `json:"appointment_date" validate:"required,datetime=2006-01-02T15:04"`
	Service         string `json:"service" validate:"required,max=200"`
	Notes           string `json:"notes,omitempty" validate:"max=1000"`
}

// Validate checks the form against its schema
func (f *AppointmentForm) Validate() error { return formValidator.Struct(f) }

// PromoteForm names the account to grant the admin role
type PromoteForm struct {
	Email string `json:"email" validate:"required,email"`
}

// Validate checks the form against its schema
func (f *PromoteForm) Validate() error { return formValidator.Struct(f) }
