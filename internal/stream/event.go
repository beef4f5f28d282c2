package stream

// Event is a single database mutation pushed to every socket watching the
// trip it belongs to.
type Event struct {
	Type   string `json:"type"`
	Table  string `json:"table"`
	Record any    `json:"record"`
}

const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)
