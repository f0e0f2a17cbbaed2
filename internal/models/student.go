package models

// Student represents a learner billed by the school.
//
// ClassID is not checked against the class collection: a student may keep pointing at a
// class that has since been deleted.
type Student struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	ClassID           int64  `json:"classId"`
	ExternalStudentID string `json:"externalStudentId"`
	Phone             string `json:"phone"`
}
