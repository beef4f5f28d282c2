package budget

// Category values mirror the budget_category enum in the database.
const (
	CategoryTransport     = "transport"
	CategoryAccommodation = "accommodation"
	CategoryFood          = "food"
	CategoryActivity      = "activity"
	CategoryOther         = "other"
)

const (
	PricingTotal     = "total"
	PricingPerPerson = "per_person"
)

type Item struct {
	ID          string  `json:"id"`
	TripID      string  `json:"trip_id"`
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Amount      int     `json:"amount"`
	PricingType string  `json:"pricing_type"`
	Memo        *string `json:"memo"`
}

type CreateRequest struct {
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Amount      int     `json:"amount"`
	PricingType string  `json:"pricing_type"`
	Memo        *string `json:"memo"`
}

type UpdateRequest struct {
	Category    *string `json:"category"`
	Name        *string `json:"name"`
	Amount      *int    `json:"amount"`
	PricingType *string `json:"pricing_type"`
	Memo        *string `json:"memo"`
}

func ValidCategory(c string) bool {
	switch c {
	case CategoryTransport, CategoryAccommodation, CategoryFood, CategoryActivity, CategoryOther:
		return true
	}
	return false
}

func ValidPricingType(p string) bool {
	return p == PricingTotal || p == PricingPerPerson
}
