package models

// Person holds the fields shared by students and teachers.
type Person struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Lookup resolves weak ID references into live records.
type Lookup interface {
	FindStudent(id int) (*Student, bool)
	FindTeacher(id int) (*Teacher, bool)
}
