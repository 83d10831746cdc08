package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-roster/internal/models"
	appErrors "github.com/noah-isme/college-roster/pkg/errors"
)

func TestRepositoryInsertThenFind(t *testing.T) {
	repo := NewStudentRepository()
	ann := models.NewStudent(1, "Ann", 20, "CS")

	require.NoError(t, repo.Insert(ann))
	found, ok := repo.FindByID(1)
	require.True(t, ok)
	assert.Equal(t, ann, found)
	assert.True(t, repo.Exists(1))
	assert.Equal(t, 1, repo.Len())
}

func TestRepositoryRejectsDuplicateID(t *testing.T) {
	repo := NewTeacherRepository()
	require.NoError(t, repo.Insert(models.NewTeacher(1, "Mr. X", "Math")))

	err := repo.Insert(models.NewTeacher(1, "Ms. Y", "Physics"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateID))

	assert.Equal(t, 1, repo.Len())
	found, _ := repo.FindByID(1)
	assert.Equal(t, "Mr. X", found.Name)
}

func TestRepositoryRejectsNil(t *testing.T) {
	repo := NewClassroomRepository()
	err := repo.Insert(nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, repo.Len())
}

func TestRepositoryFindReturnsMutableHandle(t *testing.T) {
	repo := NewStudentRepository()
	require.NoError(t, repo.Insert(models.NewStudent(1, "Ann", 20, "CS")))

	handle, ok := repo.FindByID(1)
	require.True(t, ok)
	handle.Name = "Anna"
	handle.Age = 21

	again, _ := repo.FindByID(1)
	assert.Equal(t, "Anna", again.Name)
	assert.Equal(t, 21, again.Age)
}

func TestRepositoryDeleteByID(t *testing.T) {
	repo := NewStudentRepository()
	for i, name := range []string{"Ann", "Bob", "Cid"} {
		require.NoError(t, repo.Insert(models.NewStudent(i+1, name, 20, "CS")))
	}

	assert.True(t, repo.DeleteByID(2))
	assert.False(t, repo.Exists(2))

	third, ok := repo.FindByID(3)
	require.True(t, ok)
	assert.Equal(t, "Cid", third.Name)

	ids := []int{}
	for _, s := range repo.List() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int{1, 3}, ids)
}

func TestRepositoryDeleteAbsentIsNoop(t *testing.T) {
	repo := NewStudentRepository()
	require.NoError(t, repo.Insert(models.NewStudent(1, "Ann", 20, "CS")))

	assert.False(t, repo.DeleteByID(42))
	assert.False(t, repo.DeleteByID(42))
	assert.Equal(t, 1, repo.Len())
}

func TestRepositoryListKeepsInsertionOrder(t *testing.T) {
	repo := NewClassroomRepository()
	for _, id := range []int{30, 10, 20} {
		require.NoError(t, repo.Insert(models.NewClassroom(id, "room")))
	}

	list := repo.List()
	require.Len(t, list, 3)
	assert.Equal(t, 30, list[0].ID)
	assert.Equal(t, 10, list[1].ID)
	assert.Equal(t, 20, list[2].ID)

	list[0] = nil
	first, _ := repo.FindByID(30)
	assert.NotNil(t, first)
}

func TestRepositoryDeleteDoesNotCascade(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.Students.Insert(models.NewStudent(5, "Eve", 19, "Math")))
	room := models.NewClassroom(1, "Algebra")
	room.AddStudent(5)
	require.NoError(t, cat.Classrooms.Insert(room))

	assert.True(t, cat.Students.DeleteByID(5))

	stored, _ := cat.Classrooms.FindByID(1)
	assert.Equal(t, []int{5}, stored.StudentIDs)
	assert.Equal(t, "Classroom [ID=1, Name=Algebra, Teacher=None, Students Count=0]", stored.Info(cat))
}

func TestCatalogReplaceWith(t *testing.T) {
	cat := NewCatalog()
	students := cat.Students
	require.NoError(t, cat.Students.Insert(models.NewStudent(1, "Ann", 20, "CS")))

	fresh := NewCatalog()
	require.NoError(t, fresh.Students.Insert(models.NewStudent(2, "Bob", 22, "EE")))
	require.NoError(t, fresh.Teachers.Insert(models.NewTeacher(1, "Mr. X", "Math")))

	cat.ReplaceWith(fresh)
	assert.Same(t, students, cat.Students)
	assert.False(t, cat.Students.Exists(1))
	assert.True(t, cat.Students.Exists(2))
	assert.Equal(t, map[string]int{"student": 1, "teacher": 1, "classroom": 0}, cat.Counts())
}
