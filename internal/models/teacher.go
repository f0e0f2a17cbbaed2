package models

// Teacher represents an instructor record. Teachers are not linked to classes or students.
type Teacher struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
