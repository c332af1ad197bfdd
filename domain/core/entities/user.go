package entities

// Company is the organization a user is affiliated with.
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs,omitempty"`
}

// User is an author as served by the remote service.
// Users are never constructed locally except as the empty fallback.
type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username,omitempty"`
	Email    string  `json:"email,omitempty"`
	Phone    string  `json:"phone,omitempty"`
	Website  string  `json:"website,omitempty"`
	Company  Company `json:"company"`
}

// IsZero reports whether u is the empty fallback user.
func (u User) IsZero() bool {
	return u.ID == 0 && u.Name == "" && u.Company == Company{}
}
