package domain

import (
	"time"
)

// Property type enumeration. Listings carry exactly one of these.
const (
	PropertyTypeRooms     = "Rooms"
	PropertyTypeTinyhouse = "Tinyhouse"
	PropertyTypeApartment = "Apartment"
	PropertyTypeVilla     = "Villa"
	PropertyTypeTownhouse = "Townhouse"
	PropertyTypeCottage   = "Cottage"
)

// PropertyTypes holds every valid property type literal.
var PropertyTypes = []string{
	PropertyTypeRooms,
	PropertyTypeTinyhouse,
	PropertyTypeApartment,
	PropertyTypeVilla,
	PropertyTypeTownhouse,
	PropertyTypeCottage,
}

// ValidPropertyType reports whether t is one of the fixed property categories.
func ValidPropertyType(t string) bool {
	for _, v := range PropertyTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Property represents a rental listing.
type Property struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	PricePerMonth   int       `json:"price_per_month"`
	SecurityDeposit int       `json:"security_deposit"`
	Beds            int       `json:"beds"`
	Baths           float64   `json:"baths"`
	SquareFeet      int       `json:"square_feet"`
	PropertyType    string    `json:"property_type"`
	Location        GeoPoint  `json:"location"`
	Address         string    `json:"address,omitempty"`
	City            string    `json:"city,omitempty"`
	ManagerID       string    `json:"manager_id"`
	PostedAt        time.Time `json:"posted_at"`
}

// Tenant is a renter account. Favorites holds favorited property IDs.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Favorites []int     `json:"favorites"`
	CreatedAt time.Time `json:"created_at"`
}

// Lease binds a tenant to a property for a date range.
type Lease struct {
	ID         int       `json:"id"`
	PropertyID int       `json:"property_id"`
	TenantID   string    `json:"tenant_id"`
	Rent       int       `json:"rent"`
	Deposit    int       `json:"deposit"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActiveAt reports whether the lease covers the given instant.
func (l *Lease) ActiveAt(t time.Time) bool {
	return !t.Before(l.StartDate) && !t.After(l.EndDate)
}
