package models

import "fmt"

// NoTeacherName is displayed when a classroom has no live teacher.
const NoTeacherName = "None"

// Classroom groups students under an optional teacher. Both links are weak:
// they hold IDs and are resolved through a Lookup on every read.
type Classroom struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	TeacherID  *int   `json:"teacher_id,omitempty"`
	StudentIDs []int  `json:"student_ids"`
}

// NewClassroom builds an empty classroom.
func NewClassroom(id int, name string) *Classroom {
	return &Classroom{ID: id, Name: name, StudentIDs: []int{}}
}

// EntityID returns the classroom identity.
func (c *Classroom) EntityID() int { return c.ID }

// SetTeacher replaces the teacher link without checking that the teacher exists.
func (c *Classroom) SetTeacher(teacherID int) {
	id := teacherID
	c.TeacherID = &id
}

// ClearTeacher drops the teacher link.
func (c *Classroom) ClearTeacher() {
	c.TeacherID = nil
}

// HasStudent reports whether studentID is linked to the classroom.
func (c *Classroom) HasStudent(studentID int) bool {
	for _, id := range c.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// AddStudent appends studentID unless it is already linked. It reports whether
// the link was added.
func (c *Classroom) AddStudent(studentID int) bool {
	if c.HasStudent(studentID) {
		return false
	}
	c.StudentIDs = append(c.StudentIDs, studentID)
	return true
}

// RemoveStudent unlinks every entry equal to studentID and reports whether any
// was present.
func (c *Classroom) RemoveStudent(studentID int) bool {
	kept := c.StudentIDs[:0]
	removed := false
	for _, id := range c.StudentIDs {
		if id == studentID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	c.StudentIDs = kept
	return removed
}

// Teacher resolves the teacher link. A dangling link resolves to nil.
func (c *Classroom) Teacher(l Lookup) *Teacher {
	if c.TeacherID == nil || l == nil {
		return nil
	}
	t, ok := l.FindTeacher(*c.TeacherID)
	if !ok {
		return nil
	}
	return t
}

// ResolvedStudents returns the live students in link order, skipping dangling IDs.
func (c *Classroom) ResolvedStudents(l Lookup) []*Student {
	students := make([]*Student, 0, len(c.StudentIDs))
	if l == nil {
		return students
	}
	for _, id := range c.StudentIDs {
		if s, ok := l.FindStudent(id); ok {
			students = append(students, s)
		}
	}
	return students
}

// DanglingStudentIDs returns linked IDs that no longer resolve.
func (c *Classroom) DanglingStudentIDs(l Lookup) []int {
	var dangling []int
	for _, id := range c.StudentIDs {
		if l == nil {
			dangling = append(dangling, id)
			continue
		}
		if _, ok := l.FindStudent(id); !ok {
			dangling = append(dangling, id)
		}
	}
	return dangling
}

// Info summarises the classroom from the current link state. Nothing is cached.
func (c *Classroom) Info(l Lookup) string {
	teacherName := NoTeacherName
	if t := c.Teacher(l); t != nil {
		teacherName = t.Name
	}
	return fmt.Sprintf("Classroom [ID=%d, Name=%s, Teacher=%s, Students Count=%d]",
		c.ID, c.Name, teacherName, len(c.ResolvedStudents(l)))
}
