// Package persistence loads and saves the catalog as three record files:
// students, then teachers, then classrooms. A failure on one file never stops
// the others; partial success is the normal outcome.
package persistence

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/noah-isme/college-roster/internal/codec"
	"github.com/noah-isme/college-roster/internal/models"
	"github.com/noah-isme/college-roster/internal/repository"
	"github.com/noah-isme/college-roster/pkg/config"
	appErrors "github.com/noah-isme/college-roster/pkg/errors"
	"github.com/noah-isme/college-roster/pkg/storage"
)

// Recorder receives persistence measurements.
type Recorder interface {
	RecordLoad(file string, loaded, skipped int)
	RecordSaveFailure(file string)
	ObservePersist(op string, duration time.Duration)
	SetEntityCounts(counts map[string]int)
}

type fileStorage interface {
	Open(filename string) (io.ReadCloser, error)
	Save(filename string, data []byte) error
}

// diskStorage adapts LocalStorage to fileStorage.
type diskStorage struct {
	local *storage.LocalStorage
}

func (d diskStorage) Open(filename string) (io.ReadCloser, error) {
	file, err := d.local.Open(filename)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (d diskStorage) Save(filename string, data []byte) error {
	return d.local.Save(filename, data)
}

// Store moves catalog state between memory and disk.
type Store struct {
	files    fileStorage
	cfg      config.StorageConfig
	logger   *zap.Logger
	recorder Recorder
}

// NewStore constructs a Store over local disk storage.
func NewStore(local *storage.LocalStorage, cfg config.StorageConfig, logger *zap.Logger, recorder Recorder) *Store {
	return newStore(diskStorage{local: local}, cfg, logger, recorder)
}

func newStore(files fileStorage, cfg config.StorageConfig, logger *zap.Logger, recorder Recorder) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := config.DefaultStorage()
	if cfg.StudentsFile == "" {
		cfg.StudentsFile = defaults.StudentsFile
	}
	if cfg.TeachersFile == "" {
		cfg.TeachersFile = defaults.TeachersFile
	}
	if cfg.ClassroomsFile == "" {
		cfg.ClassroomsFile = defaults.ClassroomsFile
	}
	return &Store{files: files, cfg: cfg, logger: logger, recorder: recorder}
}

// FileReport describes the outcome for one file.
type FileReport struct {
	File    string `json:"file"`
	Loaded  int    `json:"loaded"`
	Skipped int    `json:"skipped"`
	Dropped int    `json:"dropped_links"`
	Missing bool   `json:"missing"`
	Err     error  `json:"-"`
	Error   string `json:"error,omitempty"`
}

// LoadReport collects the per-file outcomes in load order.
type LoadReport struct {
	Students   FileReport `json:"students"`
	Teachers   FileReport `json:"teachers"`
	Classrooms FileReport `json:"classrooms"`
}

// Files returns the reports in load order.
func (r LoadReport) Files() []FileReport {
	return []FileReport{r.Students, r.Teachers, r.Classrooms}
}

// Err joins every per-file failure, or returns nil.
func (r LoadReport) Err() error {
	var err error
	for _, f := range r.Files() {
		err = multierr.Append(err, f.Err)
	}
	return err
}

// Load fills cat from disk. Students and teachers are loaded before
// classrooms so that classroom links resolve against them.
func (s *Store) Load(cat *repository.Catalog) LoadReport {
	start := time.Now()
	report := LoadReport{}

	report.Students = loadFile(s, s.cfg.StudentsFile, codec.DecodeStudents, cat.Students)
	report.Teachers = loadFile(s, s.cfg.TeachersFile, codec.DecodeTeachers, cat.Teachers)
	report.Classrooms = loadFile(s, s.cfg.ClassroomsFile, func(r io.Reader) (*codec.Batch[*models.Classroom], error) {
		return codec.DecodeClassrooms(r, cat)
	}, cat.Classrooms)

	if s.recorder != nil {
		for _, f := range report.Files() {
			s.recorder.RecordLoad(f.File, f.Loaded, f.Skipped)
		}
		s.recorder.ObservePersist("load", time.Since(start))
		s.recorder.SetEntityCounts(cat.Counts())
	}
	return report
}

// loadFile decodes one file into repo. Records whose ID is already present
// are skipped, first occurrence wins.
func loadFile[T repository.Entity](s *Store, name string, decode func(io.Reader) (*codec.Batch[T], error), repo *repository.Repository[T]) FileReport {
	report := FileReport{File: name}
	log := s.logger.With(zap.String("file", name))

	file, err := s.files.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			report.Missing = true
			log.Info("record file not found, starting empty")
			return report
		}
		report.setErr(appErrors.WrapKind(err, appErrors.ErrIOFailure, "open "+name))
		log.Error("record file unreadable, starting empty", zap.Error(err))
		return report
	}
	defer file.Close() //nolint:errcheck

	batch, err := decode(file)
	if err != nil {
		report.setErr(err)
		log.Error("record file read failed, starting empty", zap.Error(err))
		return report
	}

	for _, skipped := range batch.Skipped {
		log.Warn("skipping malformed record", zap.Int("line", skipped.Line), zap.String("raw", skipped.Raw), zap.Error(skipped.Err))
	}
	report.Skipped = len(batch.Skipped)
	report.Dropped = batch.Dropped

	for _, record := range batch.Records {
		if err := repo.Insert(record); err != nil {
			report.Skipped++
			log.Warn("skipping record", zap.Int("id", record.EntityID()), zap.Error(err))
			continue
		}
		report.Loaded++
	}
	if batch.Dropped > 0 {
		log.Warn("dropped unresolved links", zap.Int("count", batch.Dropped))
	}
	log.Info("record file loaded", zap.Int("loaded", report.Loaded), zap.Int("skipped", report.Skipped))
	return report
}

func (f *FileReport) setErr(err error) {
	f.Err = err
	if err != nil {
		f.Error = err.Error()
	}
}

// Save rewrites all three files from cat, in load order. Every file is
// attempted; the failures are returned together.
func (s *Store) Save(cat *repository.Catalog) error {
	start := time.Now()
	var errs error

	errs = multierr.Append(errs, s.saveFile(s.cfg.StudentsFile, func(w io.Writer) error {
		return codec.EncodeStudents(w, cat.Students.List())
	}))
	errs = multierr.Append(errs, s.saveFile(s.cfg.TeachersFile, func(w io.Writer) error {
		return codec.EncodeTeachers(w, cat.Teachers.List())
	}))
	errs = multierr.Append(errs, s.saveFile(s.cfg.ClassroomsFile, func(w io.Writer) error {
		return codec.EncodeClassrooms(w, cat.Classrooms.List())
	}))

	if s.recorder != nil {
		s.recorder.ObservePersist("save", time.Since(start))
		s.recorder.SetEntityCounts(cat.Counts())
	}
	if errs != nil {
		return appErrors.WrapKind(errs, appErrors.ErrIOFailure, "save failed")
	}
	s.logger.Info("catalog saved", zap.Any("counts", cat.Counts()))
	return nil
}

func (s *Store) saveFile(name string, encode func(io.Writer) error) error {
	buf := &bytes.Buffer{}
	err := encode(buf)
	if err == nil {
		err = s.files.Save(name, buf.Bytes())
	}
	if err != nil {
		s.logger.Error("record file save failed", zap.String("file", name), zap.Error(err))
		if s.recorder != nil {
			s.recorder.RecordSaveFailure(name)
		}
		return err
	}
	return nil
}
