package codec

import (
	"io"
	"strconv"
	"strings"

	"github.com/noah-isme/college-roster/internal/models"
)

const (
	classroomMinFields   = 3
	classroomCountColumn = 3
	classroomFirstID     = 4
)

// EncodeClassrooms writes id,className,teacherId|null,studentCount,ids... per
// classroom. Stored links are written as they are, dangling ones included.
func EncodeClassrooms(w io.Writer, classrooms []*models.Classroom) error {
	rows := make([][]string, 0, len(classrooms))
	for _, c := range classrooms {
		teacher := NoTeacher
		if c.TeacherID != nil {
			teacher = strconv.Itoa(*c.TeacherID)
		}
		row := make([]string, 0, classroomFirstID+len(c.StudentIDs))
		row = append(row, strconv.Itoa(c.ID), text(c.Name), teacher, strconv.Itoa(len(c.StudentIDs)))
		for _, id := range c.StudentIDs {
			row = append(row, strconv.Itoa(id))
		}
		rows = append(rows, row)
	}
	return writeRows(w, rows)
}

// DecodeClassrooms reads classroom lines and re-links them through lookup,
// which must already hold every student and teacher. Unresolvable or
// unparsable link IDs are dropped; the classroom itself still loads.
func DecodeClassrooms(r io.Reader, lookup models.Lookup) (*Batch[*models.Classroom], error) {
	return decodeLines(r, func(fields []string, b *Batch[*models.Classroom]) (*models.Classroom, error) {
		if len(fields) < classroomMinFields {
			return nil, malformed("classroom: expected at least %d fields, got %d", classroomMinFields, len(fields))
		}
		id, err := parseInt(fields[0], "classroom id")
		if err != nil {
			return nil, err
		}
		classroom := models.NewClassroom(id, fields[1])

		if teacherID, ok := teacherRef(fields[2]); ok {
			if lookup != nil {
				if _, found := lookup.FindTeacher(teacherID); found {
					classroom.SetTeacher(teacherID)
				} else {
					b.Dropped++
				}
			} else {
				b.Dropped++
			}
		}

		for _, raw := range studentRefs(fields) {
			studentID, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				b.Dropped++
				continue
			}
			if lookup == nil {
				b.Dropped++
				continue
			}
			if _, found := lookup.FindStudent(studentID); !found {
				b.Dropped++
				continue
			}
			classroom.AddStudent(studentID)
		}
		return classroom, nil
	})
}

// teacherRef parses the teacher column; the sentinel, a blank value and
// garbage all mean "no teacher".
func teacherRef(field string) (int, bool) {
	field = strings.TrimSpace(field)
	if field == "" || field == NoTeacher {
		return 0, false
	}
	id, err := strconv.Atoi(field)
	if err != nil {
		return 0, false
	}
	return id, true
}

// studentRefs returns the student ID columns, bounded by the count column when
// it is a usable number.
func studentRefs(fields []string) []string {
	if len(fields) <= classroomFirstID {
		return nil
	}
	ids := fields[classroomFirstID:]
	count, err := strconv.Atoi(strings.TrimSpace(fields[classroomCountColumn]))
	if err == nil && count >= 0 && count < len(ids) {
		ids = ids[:count]
	}
	return ids
}
