package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-roster/internal/models"
	appErrors "github.com/noah-isme/college-roster/pkg/errors"
)

type studentRepository interface {
	Insert(student *models.Student) error
	FindByID(id int) (*models.Student, bool)
	DeleteByID(id int) bool
	List() []*models.Student
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	ID     int    `json:"id" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required,singleline"`
	Age    int    `json:"age" validate:"min=16,max=100"`
	Course string `json:"course" validate:"required,singleline"`
}

func (r *CreateStudentRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Course = strings.TrimSpace(r.Course)
}

// UpdateStudentRequest holds payload for updating students. Nil fields keep
// their current value.
type UpdateStudentRequest struct {
	Name   *string `json:"name"`
	Age    *int    `json:"age"`
	Course *string `json:"course"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	validate = newValidator(validate)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students in insertion order.
func (s *StudentService) List() []*models.Student {
	return s.repo.List()
}

// Get returns a single student.
func (s *StudentService) Get(id int) (*models.Student, error) {
	student, ok := s.repo.FindByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %d not found", id))
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(req CreateStudentRequest) (*models.Student, error) {
	req.normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapKind(err, appErrors.ErrValidation, "invalid student payload")
	}
	student := models.NewStudent(req.ID, req.Name, req.Age, req.Course)
	if err := s.repo.Insert(student); err != nil {
		return nil, err
	}
	s.logger.Info("student created", zap.Int("id", student.ID))
	return student, nil
}

// Update modifies an existing student in place.
func (s *StudentService) Update(id int, req UpdateStudentRequest) (*models.Student, error) {
	student, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	merged := CreateStudentRequest{ID: student.ID, Name: student.Name, Age: student.Age, Course: student.Course}
	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.Age != nil {
		merged.Age = *req.Age
	}
	if req.Course != nil {
		merged.Course = *req.Course
	}
	merged.normalize()
	if err := s.validator.Struct(merged); err != nil {
		return nil, appErrors.WrapKind(err, appErrors.ErrValidation, "invalid student payload")
	}
	student.Name = merged.Name
	student.Age = merged.Age
	student.Course = merged.Course
	return student, nil
}

// Delete removes a student. Classrooms keep their link to it; the link
// becomes dangling and is skipped on display.
func (s *StudentService) Delete(id int) error {
	if !s.repo.DeleteByID(id) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %d not found", id))
	}
	s.logger.Info("student deleted", zap.Int("id", id))
	return nil
}
