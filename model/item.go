package model

type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"owner_id"`
	RequestID   *int64 `json:"request_id,omitempty"`
}

// ItemRef is the short projection used in booking views and in
// request views listing fulfilling items.
type ItemRef struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	OwnerID   int64  `json:"owner_id,omitempty"`
	Available bool   `json:"available,omitempty"`
	RequestID *int64 `json:"request_id,omitempty"`
}

// ItemPatch carries a partial update; nil means the field was omitted.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ItemDetails is the enriched projection returned when viewing an item:
// the item itself plus its nearest past/future booking and comments.
type ItemDetails struct {
	Item
	LastBooking *BookingRef `json:"last_booking"`
	NextBooking *BookingRef `json:"next_booking"`
	Comments    []Comment   `json:"comments"`
}
