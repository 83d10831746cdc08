package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/college-roster/internal/models"
	appErrors "github.com/noah-isme/college-roster/pkg/errors"
)

type classroomRepository interface {
	Insert(classroom *models.Classroom) error
	FindByID(id int) (*models.Classroom, bool)
	DeleteByID(id int) bool
	List() []*models.Classroom
}

// CreateClassroomRequest is the payload for creating a classroom.
type CreateClassroomRequest struct {
	ID   int    `json:"id" validate:"required,gt=0"`
	Name string `json:"name" validate:"required,singleline"`
}

// UpdateClassroomRequest renames a classroom.
type UpdateClassroomRequest struct {
	Name string `json:"name" validate:"required,singleline"`
}

// ClassroomDetail is a classroom with its links resolved.
type ClassroomDetail struct {
	Classroom          *models.Classroom `json:"classroom"`
	Teacher            *models.Teacher   `json:"teacher,omitempty"`
	Students           []*models.Student `json:"students"`
	Info               string            `json:"info"`
	DanglingStudentIDs []int             `json:"dangling_student_ids,omitempty"`
}

// ClassroomSummary is the list view of a classroom.
type ClassroomSummary struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	TeacherName  string `json:"teacher_name"`
	StudentCount int    `json:"student_count"`
	Info         string `json:"info"`
}

// ClassroomService manages classrooms and their teacher and student links.
type ClassroomService struct {
	repo      classroomRepository
	lookup    models.Lookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService builds a ClassroomService. lookup resolves the weak
// teacher and student links.
func NewClassroomService(repo classroomRepository, lookup models.Lookup, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	validate = newValidator(validate)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{repo: repo, lookup: lookup, validator: validate, logger: logger}
}

// List returns a summary per classroom in insertion order.
func (s *ClassroomService) List() []ClassroomSummary {
	classrooms := s.repo.List()
	summaries := make([]ClassroomSummary, 0, len(classrooms))
	for _, c := range classrooms {
		teacherName := models.NoTeacherName
		if t := c.Teacher(s.lookup); t != nil {
			teacherName = t.Name
		}
		summaries = append(summaries, ClassroomSummary{
			ID:           c.ID,
			Name:         c.Name,
			TeacherName:  teacherName,
			StudentCount: len(c.ResolvedStudents(s.lookup)),
			Info:         c.Info(s.lookup),
		})
	}
	return summaries
}

// Get returns the classroom with its links resolved.
func (s *ClassroomService) Get(id int) (*ClassroomDetail, error) {
	classroom, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return s.detail(classroom), nil
}

// Info returns the one-line classroom summary.
func (s *ClassroomService) Info(id int) (string, error) {
	classroom, err := s.find(id)
	if err != nil {
		return "", err
	}
	return classroom.Info(s.lookup), nil
}

// Create registers an empty classroom.
func (s *ClassroomService) Create(req CreateClassroomRequest) (*ClassroomDetail, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapKind(err, appErrors.ErrValidation, "invalid classroom payload")
	}
	classroom := models.NewClassroom(req.ID, req.Name)
	if err := s.repo.Insert(classroom); err != nil {
		return nil, err
	}
	s.logger.Info("classroom created", zap.Int("id", classroom.ID))
	return s.detail(classroom), nil
}

// Update renames a classroom.
func (s *ClassroomService) Update(id int, req UpdateClassroomRequest) (*ClassroomDetail, error) {
	classroom, err := s.find(id)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapKind(err, appErrors.ErrValidation, "invalid classroom payload")
	}
	classroom.Name = req.Name
	return s.detail(classroom), nil
}

// Delete removes a classroom.
func (s *ClassroomService) Delete(id int) error {
	if !s.repo.DeleteByID(id) {
		return classroomNotFound(id)
	}
	s.logger.Info("classroom deleted", zap.Int("id", id))
	return nil
}

// AssignTeacher links a teacher, replacing any previous one.
func (s *ClassroomService) AssignTeacher(classID, teacherID int) (*ClassroomDetail, error) {
	classroom, err := s.find(classID)
	if err != nil {
		return nil, err
	}
	if _, ok := s.lookup.FindTeacher(teacherID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("teacher %d not found", teacherID))
	}
	classroom.SetTeacher(teacherID)
	s.logger.Info("teacher assigned", zap.Int("classroom_id", classID), zap.Int("teacher_id", teacherID))
	return s.detail(classroom), nil
}

// UnassignTeacher clears the teacher link.
func (s *ClassroomService) UnassignTeacher(classID int) (*ClassroomDetail, error) {
	classroom, err := s.find(classID)
	if err != nil {
		return nil, err
	}
	classroom.ClearTeacher()
	return s.detail(classroom), nil
}

// AddStudent enrolls a student. A student already in the class is a conflict
// and leaves the classroom unchanged.
func (s *ClassroomService) AddStudent(classID, studentID int) (*ClassroomDetail, error) {
	classroom, err := s.find(classID)
	if err != nil {
		return nil, err
	}
	if _, ok := s.lookup.FindStudent(studentID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %d not found", studentID))
	}
	if !classroom.AddStudent(studentID) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already in class")
	}
	s.logger.Info("student enrolled", zap.Int("classroom_id", classID), zap.Int("student_id", studentID))
	return s.detail(classroom), nil
}

// RemoveStudent unlinks a student. Removing a student that is not linked
// succeeds without change.
func (s *ClassroomService) RemoveStudent(classID, studentID int) (*ClassroomDetail, error) {
	classroom, err := s.find(classID)
	if err != nil {
		return nil, err
	}
	if classroom.RemoveStudent(studentID) {
		s.logger.Info("student unenrolled", zap.Int("classroom_id", classID), zap.Int("student_id", studentID))
	}
	return s.detail(classroom), nil
}

func (s *ClassroomService) find(id int) (*models.Classroom, error) {
	classroom, ok := s.repo.FindByID(id)
	if !ok {
		return nil, classroomNotFound(id)
	}
	return classroom, nil
}

func (s *ClassroomService) detail(c *models.Classroom) *ClassroomDetail {
	return &ClassroomDetail{
		Classroom:          c,
		Teacher:            c.Teacher(s.lookup),
		Students:           c.ResolvedStudents(s.lookup),
		Info:               c.Info(s.lookup),
		DanglingStudentIDs: c.DanglingStudentIDs(s.lookup),
	}
}

func classroomNotFound(id int) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("classroom %d not found", id))
}
