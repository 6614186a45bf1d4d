package model

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRef is the short projection embedded in booking views.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserPatch distinguishes omitted fields from supplied ones.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
