package codec

import (
	"io"
	"strconv"

	"github.com/noah-isme/college-roster/internal/models"
)

const (
	studentFields = 4
	teacherFields = 3
)

// EncodeStudents writes id,name,age,course per student.
func EncodeStudents(w io.Writer, students []*models.Student) error {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{strconv.Itoa(s.ID), text(s.Name), strconv.Itoa(s.Age), text(s.Course)})
	}
	return writeRows(w, rows)
}

// DecodeStudents reads id,name,age,course lines. Lines with a different field
// count or non-numeric id/age are skipped.
func DecodeStudents(r io.Reader) (*Batch[*models.Student], error) {
	return decodeLines(r, func(fields []string, _ *Batch[*models.Student]) (*models.Student, error) {
		if len(fields) != studentFields {
			return nil, malformed("student: expected %d fields, got %d", studentFields, len(fields))
		}
		id, err := parseInt(fields[0], "student id")
		if err != nil {
			return nil, err
		}
		age, err := parseInt(fields[2], "student age")
		if err != nil {
			return nil, err
		}
		return models.NewStudent(id, fields[1], age, fields[3]), nil
	})
}

// EncodeTeachers writes id,name,subject per teacher.
func EncodeTeachers(w io.Writer, teachers []*models.Teacher) error {
	rows := make([][]string, 0, len(teachers))
	for _, t := range teachers {
		rows = append(rows, []string{strconv.Itoa(t.ID), text(t.Name), text(t.Subject)})
	}
	return writeRows(w, rows)
}

// DecodeTeachers reads id,name,subject lines.
func DecodeTeachers(r io.Reader) (*Batch[*models.Teacher], error) {
	return decodeLines(r, func(fields []string, _ *Batch[*models.Teacher]) (*models.Teacher, error) {
		if len(fields) != teacherFields {
			return nil, malformed("teacher: expected %d fields, got %d", teacherFields, len(fields))
		}
		id, err := parseInt(fields[0], "teacher id")
		if err != nil {
			return nil, err
		}
		return models.NewTeacher(id, fields[1], fields[2]), nil
	})
}
