package entities

// Comment belongs to a post; PostID is implied by the query that fetched it.
type Comment struct {
	ID     int    `json:"id,omitempty"`
	PostID int    `json:"postId,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}
