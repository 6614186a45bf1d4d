package model

import "time"

type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	Created     time.Time `json:"created"`
}

// ItemRequestDetails is a request plus the items listed to fulfill it.
type ItemRequestDetails struct {
	ItemRequest
	Items []ItemRef `json:"items"`
}
