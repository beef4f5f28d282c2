package checklist

const (
	TypePacking = "packing"
	TypeTodo    = "todo"
)

type Item struct {
	ID      string `json:"id"`
	TripID  string `json:"trip_id"`
	Type    string `json:"type"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

type CreateRequest struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

type UpdateRequest struct {
	Type    *string `json:"type"`
	Text    *string `json:"text"`
	Checked *bool   `json:"checked"`
}

func ValidType(t string) bool {
	return t == TypePacking || t == TypeTodo
}
