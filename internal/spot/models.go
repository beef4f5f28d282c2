package spot

type Spot struct {
	ID        string   `json:"id"`
	TripID    string   `json:"trip_id"`
	DayIndex  int      `json:"day_index"`
	Order     int      `json:"order"`
	Name      string   `json:"name"`
	Address   *string  `json:"address"`
	StartTime *string  `json:"start_time"`
	EndTime   *string  `json:"end_time"`
	Memo      *string  `json:"memo"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type CreateRequest struct {
	DayIndex  int      `json:"day_index"`
	Order     int      `json:"order"`
	Name      string   `json:"name"`
	Address   *string  `json:"address"`
	StartTime *string  `json:"start_time"`
	EndTime   *string  `json:"end_time"`
	Memo      *string  `json:"memo"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type UpdateRequest struct {
	DayIndex  *int     `json:"day_index"`
	Order     *int     `json:"order"`
	Name      *string  `json:"name"`
	Address   *string  `json:"address"`
	StartTime *string  `json:"start_time"`
	EndTime   *string  `json:"end_time"`
	Memo      *string  `json:"memo"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
