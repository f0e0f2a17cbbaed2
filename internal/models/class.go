package models

// Class represents a school class or section. Names are not required to be unique.
type Class struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
