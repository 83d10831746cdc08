package repository

import (
	"fmt"

	"github.com/noah-isme/college-roster/internal/models"
	appErrors "github.com/noah-isme/college-roster/pkg/errors"
)

// Entity is any record identified by a numeric ID.
type Entity interface {
	comparable
	EntityID() int
}

// Repository is the in-memory authoritative collection for one entity type.
// It keeps insertion order and an ID index. It is not safe for concurrent use.
type Repository[T Entity] struct {
	kind  string
	order []T
	index map[int]int
}

// StudentRepository owns student records.
type StudentRepository = Repository[*models.Student]

// TeacherRepository owns teacher records.
type TeacherRepository = Repository[*models.Teacher]

// ClassroomRepository owns classroom records.
type ClassroomRepository = Repository[*models.Classroom]

// New constructs an empty repository; kind is used in error messages.
func New[T Entity](kind string) *Repository[T] {
	return &Repository[T]{kind: kind, index: make(map[int]int)}
}

// NewStudentRepository constructs an empty StudentRepository.
func NewStudentRepository() *StudentRepository {
	return New[*models.Student]("student")
}

// NewTeacherRepository constructs an empty TeacherRepository.
func NewTeacherRepository() *TeacherRepository {
	return New[*models.Teacher]("teacher")
}

// NewClassroomRepository constructs an empty ClassroomRepository.
func NewClassroomRepository() *ClassroomRepository {
	return New[*models.Classroom]("classroom")
}

// Insert stores entity. An existing ID is rejected with ErrDuplicateID and the
// repository is left untouched.
func (r *Repository[T]) Insert(entity T) error {
	var zero T
	if entity == zero {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is nil", r.kind))
	}
	id := entity.EntityID()
	if _, ok := r.index[id]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateID, fmt.Sprintf("%s with id %d already exists", r.kind, id))
	}
	r.index[id] = len(r.order)
	r.order = append(r.order, entity)
	return nil
}

// FindByID returns the stored handle, so field updates apply in place.
func (r *Repository[T]) FindByID(id int) (T, bool) {
	pos, ok := r.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return r.order[pos], true
}

// Exists reports whether id is stored.
func (r *Repository[T]) Exists(id int) bool {
	_, ok := r.index[id]
	return ok
}

// DeleteByID removes the entity with id and reports whether one was present.
// It never touches other repositories or classroom links.
func (r *Repository[T]) DeleteByID(id int) bool {
	pos, ok := r.index[id]
	if !ok {
		return false
	}
	r.order = append(r.order[:pos], r.order[pos+1:]...)
	delete(r.index, id)
	for i := pos; i < len(r.order); i++ {
		r.index[r.order[i].EntityID()] = i
	}
	return true
}

// List returns the entities in insertion order. The slice is a copy; the
// entities are shared.
func (r *Repository[T]) List() []T {
	out := make([]T, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of stored entities.
func (r *Repository[T]) Len() int {
	return len(r.order)
}

// Kind names the entity type held by the repository.
func (r *Repository[T]) Kind() string {
	return r.kind
}

// ReplaceWith swaps the repository content for other's.
func (r *Repository[T]) ReplaceWith(other *Repository[T]) {
	r.order = other.List()
	r.index = make(map[int]int, len(r.order))
	for i, e := range r.order {
		r.index[e.EntityID()] = i
	}
}
