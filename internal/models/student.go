package models

import "fmt"

// Student represents a learner enrolled in the college.
type Student struct {
	Person
	Age    int    `json:"age"`
	Course string `json:"course"`
}

// NewStudent builds a student record.
func NewStudent(id int, name string, age int, course string) *Student {
	return &Student{Person: Person{ID: id, Name: name}, Age: age, Course: course}
}

// EntityID returns the student identity.
func (s *Student) EntityID() int { return s.ID }

// StudentDetails renders a single-line description of the student.
func StudentDetails(s *Student) string {
	return fmt.Sprintf("Student [ID=%d, Name=%s, Age=%d, Course=%s]", s.ID, s.Name, s.Age, s.Course)
}
