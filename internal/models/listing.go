package models

// ListingFeeUSD is the one-off fee the backend charges to publish an apartment or event
const ListingFeeUSD = "10.00"

// Apartment form option sets
var (
	PropertyTypes      = []string{"Apartment", "House", "Condo", "Room", "Studio"}
	FurnishingOptions  = []string{"Furnished", "Semi-Furnished", "Unfurnished"}
	AmenityOptions     = []string{"Pool", "Gym", "A/C", "Parking", "Washer/Dryer", "Balcony", "Garden", "Security"}
	UtilityOptions     = []string{"Water", "Electricity", "Internet", "Cable", "Gas"}
	LeaseDurationTerms = []string{"Monthly", "6 Months", "1 Year", "Negotiable"}
)

// Apartment is a rental listing; it goes live once the backend confirms payment
type Apartment struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Address           string   `json:"address"`
	Island            string   `json:"island"`
	Bedrooms          int      `json:"bedrooms"`
	Bathrooms         float64  `json:"bathrooms"`
	MonthlyRent       float64  `json:"monthly_rent"`
	PropertyType      string   `json:"property_type"`
	Furnishing        string   `json:"furnishing"`
	Amenities         []string `json:"amenities"`
	UtilitiesIncluded []string `json:"utilities_included"`
	LeaseDuration     string   `json:"lease_duration"`
	AvailableDate     string   `json:"available_date,omitempty"`
	ContactName       string   `json:"contact_name"`
	ContactEmail      string   `json:"contact_email"`
	ContactPhone      string   `json:"contact_phone"`
	Photos            []string `json:"photos,omitempty"`
	IsPaid            bool     `json:"is_paid"`
}

// Event is a dated listing with the same create-then-pay lifecycle as Apartment
type Event struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Island         string  `json:"island"`
	Location       string  `json:"location"`
	EventDate      string  `json:"event_date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time,omitempty"`
	OrganizerName  string  `json:"organizer_name"`
	OrganizerEmail string  `json:"organizer_email"`
	OrganizerPhone string  `json:"organizer_phone,omitempty"`
	TicketPrice    float64 `json:"ticket_price,omitempty"`
	TicketLink     string  `json:"ticket_link,omitempty"`
	IsPaid         bool    `json:"is_paid"`
}

// PaymentSession is returned by the create-payment endpoints
type PaymentSession struct {
	PaymentID   string `json:"payment_id,omitempty"`
	ApprovalURL string `json:"approval_url"`
}
