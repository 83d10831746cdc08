package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-roster/internal/service"
	"github.com/noah-isme/college-roster/pkg/response"
)

// ClassroomHandler exposes classroom endpoints, including teacher and
// student links and roster exports.
type ClassroomHandler struct {
	classrooms *service.ClassroomService
	rosters    *service.RosterService
}

// NewClassroomHandler constructs ClassroomHandler.
func NewClassroomHandler(classrooms *service.ClassroomService, rosters *service.RosterService) *ClassroomHandler {
	return &ClassroomHandler{classrooms: classrooms, rosters: rosters}
}

type assignTeacherRequest struct {
	TeacherID int `json:"teacher_id" binding:"required"`
}

type enrollStudentRequest struct {
	StudentID int `json:"student_id" binding:"required"`
}

// List godoc
// @Summary List classrooms
// @Tags Classrooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *ClassroomHandler) List(c *gin.Context) {
	summaries := h.classrooms.List()
	response.JSON(c, http.StatusOK, summaries, map[string]interface{}{"count": len(summaries)})
}

// Get godoc
// @Summary Get classroom with resolved teacher and students
// @Tags Classrooms
// @Produce json
// @Param id path int true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [get]
func (h *ClassroomHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.classrooms.Get(id))
}

// Info godoc
// @Summary Classroom one-line summary
// @Tags Classrooms
// @Produce json
// @Param id path int true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id}/info [get]
func (h *ClassroomHandler) Info(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	info, err := h.classrooms.Info(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"info": info})
}

// Create godoc
// @Summary Create classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param payload body service.CreateClassroomRequest true "Classroom payload"
// @Success 201 {object} response.Envelope
// @Router /classrooms [post]
func (h *ClassroomHandler) Create(c *gin.Context) {
	var req service.CreateClassroomRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c, http.StatusCreated)(h.classrooms.Create(req))
}

// Update godoc
// @Summary Rename classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param id path int true "Classroom ID"
// @Param payload body service.UpdateClassroomRequest true "Classroom payload"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [put]
func (h *ClassroomHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateClassroomRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c, http.StatusOK)(h.classrooms.Update(id, req))
}

// Delete godoc
// @Summary Delete classroom
// @Tags Classrooms
// @Param id path int true "Classroom ID"
// @Success 204
// @Router /classrooms/{id} [delete]
func (h *ClassroomHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.classrooms.Delete(id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AssignTeacher godoc
// @Summary Assign classroom teacher
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param id path int true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id}/teacher [put]
func (h *ClassroomHandler) AssignTeacher(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req assignTeacherRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c, http.StatusOK)(h.classrooms.AssignTeacher(id, req.TeacherID))
}

// UnassignTeacher godoc
// @Summary Clear classroom teacher
// @Tags Classrooms
// @Produce json
// @Param id path int true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id}/teacher [delete]
func (h *ClassroomHandler) UnassignTeacher(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.classrooms.UnassignTeacher(id))
}

// AddStudent godoc
// @Summary Enroll student in classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param id path int true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /classrooms/{id}/students [post]
func (h *ClassroomHandler) AddStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req enrollStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respond(c, http.StatusOK)(h.classrooms.AddStudent(id, req.StudentID))
}

// RemoveStudent godoc
// @Summary Remove student from classroom
// @Tags Classrooms
// @Produce json
// @Param id path int true "Classroom ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id}/students/{studentId} [delete]
func (h *ClassroomHandler) RemoveStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.classrooms.RemoveStudent(id, studentID))
}

// Roster godoc
// @Summary Download classroom roster
// @Tags Classrooms
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Classroom ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /classrooms/{id}/roster [get]
func (h *ClassroomHandler) Roster(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	format, err := service.ParseRosterFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.rosters.Export(id, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, out.Filename, out.ContentType, out.Data)
}

func (h *ClassroomHandler) respond(c *gin.Context, status int) func(*service.ClassroomDetail, error) {
	return func(detail *service.ClassroomDetail, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, status, detail)
	}
}
