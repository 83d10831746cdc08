package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/college-roster/internal/persistence"
	"github.com/noah-isme/college-roster/internal/repository"
	appErrors "github.com/noah-isme/college-roster/pkg/errors"
)

var _ persistence.Recorder = (*MetricsService)(nil)

type catalogStore interface {
	Load(cat *repository.Catalog) persistence.LoadReport
	Save(cat *repository.Catalog) error
}

// PersistenceService moves the shared catalog to and from the record files.
type PersistenceService struct {
	store   catalogStore
	catalog *repository.Catalog
	logger  *zap.Logger
}

// NewPersistenceService constructs a PersistenceService over the shared catalog.
func NewPersistenceService(store catalogStore, catalog *repository.Catalog, logger *zap.Logger) *PersistenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersistenceService{store: store, catalog: catalog, logger: logger}
}

// Load reads the record files straight into the shared catalog. It is meant
// for start-up, when the catalog is empty. A file that cannot be read leaves
// its repository empty.
func (s *PersistenceService) Load() persistence.LoadReport {
	report := s.store.Load(s.catalog)
	s.logReport("catalog loaded", report)
	return report
}

// Save writes the shared catalog to disk.
func (s *PersistenceService) Save() error {
	return s.store.Save(s.catalog)
}

// Reload re-reads the record files into a fresh catalog and swaps it in.
// When any file fails with an I/O error the current state is kept.
func (s *PersistenceService) Reload() (persistence.LoadReport, error) {
	fresh := repository.NewCatalog()
	report := s.store.Load(fresh)
	if err := report.Err(); err != nil {
		s.logger.Warn("reload aborted, keeping current catalog", zap.Error(err))
		return report, appErrors.WrapKind(err, appErrors.ErrIOFailure, "reload failed, current state kept")
	}
	s.catalog.ReplaceWith(fresh)
	s.logReport("catalog reloaded", report)
	return report, nil
}

func (s *PersistenceService) logReport(msg string, report persistence.LoadReport) {
	fields := make([]zap.Field, 0, 3)
	for _, f := range report.Files() {
		fields = append(fields, zap.Any(f.File, f))
	}
	s.logger.Info(msg, fields...)
}
