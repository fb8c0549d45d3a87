package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thedirecttree/directory-gateway/pkg/validator"
)

func validApartmentForm() ApartmentForm {
	form := NewApartmentForm()
	form.Title = "Two bedroom by Cable Beach"
	form.Description = "Sea view, quiet street"
	form.Address = "West Bay Street"
	form.Island = "New Providence"
	form.Bedrooms = 2
	form.MonthlyRent = 1800
	form.Amenities = []string{"Pool", "A/C"}
	form.UtilitiesIncluded = []string{"Water"}
	form.ContactName = "Tanya Rolle"
	form.ContactEmail = "tanya@example.com"
	form.ContactPhone = "242-322-1234"
	return form
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	return verrs.Fields()
}

func TestApartmentForm_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		form := validApartmentForm()
		assert.NoError(t, form.Validate())
	})

	t.Run("Unknown amenity", func(t *testing.T) {
		form := validApartmentForm()
		form.Amenities = []string{"Pool", "Helipad"}
		fields := fieldErrors(t, form.Validate())
		assert.Contains(t, fields, "amenities[1]")
		assert.Contains(t, fields["amenities[1]"], "must be one of")
	})

	t.Run("Duplicate utility", func(t *testing.T) {
		form := validApartmentForm()
		form.UtilitiesIncluded = []string{"Water", "Water"}
		fields := fieldErrors(t, form.Validate())
		assert.Contains(t, fields, "utilities_included")
	})

	t.Run("Bad property type and rent", func(t *testing.T) {
		form := validApartmentForm()
		form.PropertyType = "Castle"
		form.MonthlyRent = 0
		fields := fieldErrors(t, form.Validate())
		assert.Contains(t, fields, "property_type")
		assert.Contains(t, fields, "monthly_rent")
	})

	t.Run("Island outside the archipelago", func(t *testing.T) {
		form := validApartmentForm()
		form.Island = "Jamaica"
		fields := fieldErrors(t, form.Validate())
		assert.Contains(t, fields, "island")
	})
}

func TestRegisterForm_Validate(t *testing.T) {
	form := RegisterForm{
		Email:         "owner@example.com",
		Password:      "correct-horse",
		FirstName:     "Dion",
		LastName:      "Knowles",
		Role:          RoleBusinessOwner,
		AcceptTerms:   true,
		AcceptPrivacy: true,
	}
	require.NoError(t, form.Validate())

	t.Run("Agreements unchecked", func(t *testing.T) {
		f := form
		f.AcceptTerms = false
		f.AcceptPrivacy = false
		fields := fieldErrors(t, f.Validate())
		assert.Equal(t, "must be accepted", fields["accept_terms"])
		assert.Equal(t, "must be accepted", fields["accept_privacy"])
	})

	t.Run("Admin cannot self register", func(t *testing.T) {
		f := form
		f.Role = RoleAdmin
		fields := fieldErrors(t, f.Validate())
		assert.Contains(t, fields, "role")
	})

	t.Run("Request drops agreement flags", func(t *testing.T) {
		req := form.Request()
		assert.Equal(t, form.Email, req.Email)
		assert.Equal(t, RoleBusinessOwner, req.Role)
	})

	t.Run("Request formats phone", func(t *testing.T) {
		f := form
		f.Phone = "+1 242 322 1234"
		assert.Equal(t, "(242) 322-1234", f.Request().Phone)

		f.Phone = ""
		assert.Empty(t, f.Request().Phone)
	})
}

func TestBusinessForm_Validate(t *testing.T) {
	form := BusinessForm{
		BusinessName:  "Conch Shack",
		Description:   "Fresh conch salad",
		Category:      "Restaurant",
		Island:        "Exuma",
		Address:       "Queen's Highway",
		LicenseNumber: "BL-2291",
		Phone:         "(242) 336-2000",
		Email:         "hello@conchshack.bs",
	}
	require.NoError(t, form.Validate())

	incomplete := BusinessForm{BusinessName: "Conch Shack"}
	fields := fieldErrors(t, incomplete.Validate())
	for _, name := range []string{"description", "category", "island", "address", "license_number", "phone", "email"} {
		assert.Equal(t, "is required", fields[name], name)
	}
}

func TestEventForm_Validate(t *testing.T) {
	form := EventForm{
		Title:          "Junkanoo Summer Festival",
		Description:    "Rush out on Arawak Cay",
		Category:       "Festival",
		Island:         "New Providence",
		Location:       "Arawak Cay",
		EventDate:      "2026-07-11",
		StartTime:      "18:00",
		OrganizerName:  "Ministry of Tourism",
		OrganizerEmail: "events@example.com",
	}
	require.NoError(t, form.Validate())

	form.EventDate = "11/07/2026"
	form.StartTime = "6pm"
	fields := fieldErrors(t, form.Validate())
	assert.Contains(t, fields, "event_date")
	assert.Contains(t, fields, "start_time")
}

func TestReviewForm_Validate(t *testing.T) {
	form := ReviewForm{BusinessID: "b-1", Rating: 5, Comment: "Excellent"}
	require.NoError(t, form.Validate())

	form.Rating = 6
	fields := fieldErrors(t, form.Validate())
	assert.Equal(t, "must be at most 5", fields["rating"])

	form.Rating = 0
	fields = fieldErrors(t, form.Validate())
	assert.Equal(t, "must be at least 1", fields["rating"])
}
