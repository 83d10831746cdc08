package repository

import "github.com/noah-isme/college-roster/internal/models"

// Catalog bundles the three repositories. It is built once at start-up and
// passed to every component that needs it.
type Catalog struct {
	Students   *StudentRepository
	Teachers   *TeacherRepository
	Classrooms *ClassroomRepository
}

// NewCatalog constructs a catalog with empty repositories.
func NewCatalog() *Catalog {
	return &Catalog{
		Students:   NewStudentRepository(),
		Teachers:   NewTeacherRepository(),
		Classrooms: NewClassroomRepository(),
	}
}

// FindStudent implements models.Lookup.
func (c *Catalog) FindStudent(id int) (*models.Student, bool) {
	return c.Students.FindByID(id)
}

// FindTeacher implements models.Lookup.
func (c *Catalog) FindTeacher(id int) (*models.Teacher, bool) {
	return c.Teachers.FindByID(id)
}

// ReplaceWith swaps every repository's content for other's, keeping the
// repository pointers held by services valid.
func (c *Catalog) ReplaceWith(other *Catalog) {
	c.Students.ReplaceWith(other.Students)
	c.Teachers.ReplaceWith(other.Teachers)
	c.Classrooms.ReplaceWith(other.Classrooms)
}

// Counts reports the number of records per entity kind.
func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		c.Students.Kind():   c.Students.Len(),
		c.Teachers.Kind():   c.Teachers.Len(),
		c.Classrooms.Kind(): c.Classrooms.Len(),
	}
}

var _ models.Lookup = (*Catalog)(nil)
