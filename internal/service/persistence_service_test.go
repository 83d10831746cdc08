package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-roster/internal/models"
	"github.com/noah-isme/college-roster/internal/persistence"
	"github.com/noah-isme/college-roster/internal/repository"
	appErrors "github.com/noah-isme/college-roster/pkg/errors"
)

type fakeStore struct {
	students []*models.Student
	loadErr  error
	saveErr  error
	saved    int
}

func (f *fakeStore) Load(cat *repository.Catalog) persistence.LoadReport {
	report := persistence.LoadReport{
		Students:   persistence.FileReport{File: "students.txt"},
		Teachers:   persistence.FileReport{File: "teachers.txt", Missing: true},
		Classrooms: persistence.FileReport{File: "classrooms.txt", Missing: true},
	}
	for _, s := range f.students {
		if err := cat.Students.Insert(models.NewStudent(s.ID, s.Name, s.Age, s.Course)); err == nil {
			report.Students.Loaded++
		}
	}
	if f.loadErr != nil {
		report.Teachers = persistence.FileReport{File: "teachers.txt", Err: f.loadErr, Error: f.loadErr.Error()}
	}
	return report
}

func (f *fakeStore) Save(*repository.Catalog) error {
	f.saved++
	return f.saveErr
}

func TestPersistenceServiceReloadSwapsCatalog(t *testing.T) {
	cat := seededCatalog(t)
	store := &fakeStore{students: []*models.Student{models.NewStudent(7, "Zed", 30, "Law")}}
	svc := NewPersistenceService(store, cat, nil)
	students := NewStudentService(cat.Students, nil, nil)

	report, err := svc.Reload()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Students.Loaded)

	list := students.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Zed", list[0].Name)
	assert.Zero(t, cat.Classrooms.Len())
}

func TestPersistenceServiceReloadKeepsStateOnFailure(t *testing.T) {
	cat := seededCatalog(t)
	store := &fakeStore{loadErr: appErrors.Clone(appErrors.ErrIOFailure, "read teachers.txt")}
	svc := NewPersistenceService(store, cat, nil)

	report, err := svc.Reload()
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrIOFailure))
	assert.NotEmpty(t, report.Teachers.Error)
	assert.Equal(t, 2, cat.Students.Len())
	assert.Equal(t, 1, cat.Teachers.Len())
}

func TestPersistenceServiceLoadAndSave(t *testing.T) {
	cat := repository.NewCatalog()
	store := &fakeStore{students: []*models.Student{models.NewStudent(1, "Ann", 20, "CS")}}
	svc := NewPersistenceService(store, cat, nil)

	report := svc.Load()
	assert.Equal(t, 1, report.Students.Loaded)
	assert.Equal(t, 1, cat.Students.Len())

	require.NoError(t, svc.Save())
	store.saveErr = appErrors.Clone(appErrors.ErrIOFailure, "save failed")
	assert.Error(t, svc.Save())
	assert.Equal(t, 2, store.saved)
}
