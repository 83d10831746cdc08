package models

import "fmt"

// Teacher represents an instructor record.
type Teacher struct {
	Person
	Subject string `json:"subject"`
}

// NewTeacher builds a teacher record.
func NewTeacher(id int, name, subject string) *Teacher {
	return &Teacher{Person: Person{ID: id, Name: name}, Subject: subject}
}

// EntityID returns the teacher identity.
func (t *Teacher) EntityID() int { return t.ID }

// TeacherDetails renders a single-line description of the teacher.
func TeacherDetails(t *Teacher) string {
	return fmt.Sprintf("Teacher [ID=%d, Name=%s, Subject=%s]", t.ID, t.Name, t.Subject)
}
