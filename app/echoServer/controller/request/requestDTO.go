package request

// Description is intentionally not validated; empty requests are
// accepted and persisted as-is.
type CreateRequestReq struct {
	Description string `json:"description"`
}
