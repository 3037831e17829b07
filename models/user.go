package models

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Media is an uploaded file stored through the backend's file storage.
type Media struct {
	ID        string `json:"id"`
	Bucket    string `json:"bucket"`
	Folder    string `json:"folder"`
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}

var MediaBuckets = []string{"packages", "places", "cabs", "services", "admin"}
