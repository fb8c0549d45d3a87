package models

import "time"

// BusinessStatus is the moderation state of a business profile
type BusinessStatus string

const (
	BusinessStatusPending   BusinessStatus = "pending"
	BusinessStatusApproved  BusinessStatus = "approved"
	BusinessStatusRejected  BusinessStatus = "rejected"
	BusinessStatusSuspended BusinessStatus = "suspended"
)

// Islands is the fixed island enumeration served by GET /islands
var Islands = []string{
	"New Providence", "Grand Bahama", "Abaco", "Eleuthera", "Exuma", "Andros",
	"Cat Island", "Long Island", "San Salvador", "Rum Cay", "Crooked Island",
	"Acklins", "Mayaguana", "Inagua", "Bimini", "Berry Islands", "Ragged Island",
}

// BusinessCategories is the category enumeration served by GET /categories
var BusinessCategories = []string{
	"Restaurant", "Hotel", "Tour Operator", "Transportation", "Retail",
	"Beauty & Spa", "Health & Medical", "Automotive", "Real Estate",
	"Legal Services", "Financial Services", "Construction", "Entertainment",
	"Education", "Technology", "Other",
}

// Business is a licensed business profile
type Business struct {
	ID                  string         `json:"id"`
	UserID              string         `json:"user_id,omitempty"`
	BusinessName        string         `json:"business_name"`
	Description         string         `json:"description"`
	Category            string         `json:"category"`
	Island              string         `json:"island"`
	Address             string         `json:"address"`
	LicenseNumber       string         `json:"license_number"`
	Phone               string         `json:"phone"`
	Email               string         `json:"email"`
	Website             string         `json:"website,omitempty"`
	Status              BusinessStatus `json:"status"`
	RatingAverage       float64        `json:"rating_average"`
	RatingCount         int            `json:"rating_count"`
	AcceptsAppointments bool           `json:"accepts_appointments"`
	AppointmentDuration int            `json:"appointment_duration,omitempty"`
	Photos              []string       `json:"photos,omitempty"`
	CoverPhoto          string         `json:"cover_photo,omitempty"`
	ProfilePhoto        string         `json:"profile_photo,omitempty"`
	Logo                string         `json:"logo,omitempty"`
	SubscriptionStatus  string         `json:"subscription_status,omitempty"`
	TrialEndDate        *time.Time     `json:"trial_end_date,omitempty"`
	CreatedAt           *time.Time     `json:"created_at,omitempty"`
}

// Review is a customer review; IsApproved is false while it sits in the moderation queue
type Review struct {
	ID           string     `json:"id"`
	BusinessID   string     `json:"business_id"`
	UserID       string     `json:"user_id"`
	CustomerName string     `json:"customer_name,omitempty"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
	IsAnonymous  bool       `json:"is_anonymous"`
	IsApproved   bool       `json:"is_approved"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// Appointment is a booking made by a customer with a business
type Appointment struct {
	ID              string     `json:"id"`
	BusinessID      string     `json:"business_id"`
	CustomerID      string     `json:"customer_id"`
	AppointmentDate *time.Time `json:"appointment_date"`
	Duration        int        `json:"duration"`
	Service         string     `json:"service"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
}

// Photo is a gallery image belonging to exactly one business
type Photo struct {
	ID               string `json:"id"`
	ThumbnailURL     string `json:"thumbnail_url"`
	OptimizedURL     string `json:"optimized_url"`
	OriginalFilename string `json:"original_filename"`
}

// UploadFile is one file of a multipart photo batch
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
