package reservation

// Type values mirror the reservation_type enum in the database.
const (
	TypeFlight     = "flight"
	TypeHotel      = "hotel"
	TypeRentalCar  = "rental_car"
	TypeRestaurant = "restaurant"
	TypeActivity   = "activity"
	TypeOther      = "other"
)

type Reservation struct {
	ID                 string  `json:"id"`
	TripID             string  `json:"trip_id"`
	Type               string  `json:"type"`
	Name               string  `json:"name"`
	ConfirmationNumber *string `json:"confirmation_number"`
	Datetime           *string `json:"datetime"`
	Link               *string `json:"link"`
	Memo               *string `json:"memo"`
}

type CreateRequest struct {
	Type               string  `json:"type"`
	Name               string  `json:"name"`
	ConfirmationNumber *string `json:"confirmation_number"`
	Datetime           *string `json:"datetime"`
	Link               *string `json:"link"`
	Memo               *string `json:"memo"`
}

type UpdateRequest struct {
	Type               *string `json:"type"`
	Name               *string `json:"name"`
	ConfirmationNumber *string `json:"confirmation_number"`
	Datetime           *string `json:"datetime"`
	Link               *string `json:"link"`
	Memo               *string `json:"memo"`
}

func ValidType(t string) bool {
	switch t {
	case TypeFlight, TypeHotel, TypeRentalCar, TypeRestaurant, TypeActivity, TypeOther:
		return true
	}
	return false
}
