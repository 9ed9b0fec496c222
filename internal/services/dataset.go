package services

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/hoopsight/prospects/internal/models"
	"github.com/hoopsight/prospects/internal/pipeline"
	"github.com/hoopsight/prospects/internal/predictor"
	"github.com/hoopsight/prospects/internal/table"
	"github.com/hoopsight/prospects/pkg/config"
	"github.com/hoopsight/prospects/pkg/database"
)

// Dataset is one immutable build of the reconciled player table plus the
// models trained on it. A new build replaces the whole value; nothing is
// mutated after construction.
type Dataset struct {
	BuildID   string
	BuiltAt   time.Time
	Table     *table.Table
	Estimator *predictor.Estimator
}

// FeatureSummary is one predictor column with its training-set mean, the
// dashboard's default for manual stat entry.
type FeatureSummary struct {
	Name string  `json:"name"`
	Mean float64 `json:"mean"`
}

// DatasetSummary describes the current build for the dashboard.
type DatasetSummary struct {
	BuildID  string              `json:"build_id"`
	BuiltAt  time.Time           `json:"built_at"`
	Players  int                 `json:"players"`
	Features []FeatureSummary    `json:"features"`
	Models   []predictor.Summary `json:"models"`
}

// DatasetService builds and serves the reconciled dataset: it is the one
// explicit pipeline context per run. The database and cache are optional;
// either being absent degrades to in-memory serving, never to a failure.
type DatasetService struct {
	db     *database.DB
	cache  *CacheService
	logger *logrus.Logger
	cfg    *config.Config

	mu      sync.RWMutex
	current *Dataset
}

// NewDatasetService creates the dataset service. db and cache may be nil.
func NewDatasetService(db *database.DB, cache *CacheService, logger *logrus.Logger, cfg *config.Config) *DatasetService {
	return &DatasetService{
		db:     db,
		cache:  cache,
		logger: logger,
		cfg:    cfg,
	}
}

// Build loads every source, runs the reconciliation pipeline, trains the
// models, and swaps the new dataset in. Source problems degrade per the
// empty-result policy: a missing optional source is logged and skipped, a
// missing required stat empties the impact side, and only a dataset too
// small to train on is reported as an error.
func (s *DatasetService) Build() (*Dataset, error) {
	start, end := s.cfg.StartYear, s.cfg.EndYear

	allstarRaw := s.loadSource(s.cfg.AllStarFile, "all-star selections")
	collegeRaw := s.loadSource(s.cfg.CollegeFile, "college stats")
	proRaw := s.loadSource(s.cfg.ProStatsFile, "professional stats")
	draftRaw := s.loadSource(s.cfg.DraftFile, "draft outcomes")

	var attributes *table.Table
	if s.cfg.AttributesFile != "" {
		if t, err := loadTable(s.cfg.AttributesFile); err != nil {
			// optional source: tolerated, logged, never fatal
			s.logger.Warnf("Skipping position attributes source: %v", err)
		} else {
			attributes = t
		}
	}

	allstar := pipeline.AllStarAppearances(allstarRaw, start, end)
	college := pipeline.CollegeRecords(collegeRaw, draftRaw, start, end, nil)

	// scan past the draft window so late-window picks get full careers
	career, err := pipeline.CareerImpact(proRaw, start, end+s.cfg.CareerHorizonYears)
	if err != nil {
		s.logger.Errorf("Career impact computation failed, continuing with empty table: %v", err)
		career = table.Empty()
	}

	reconciled := pipeline.Reconcile(college, allstar, career, attributes)
	pipeline.ClassifyPositions(reconciled)

	ds := &Dataset{
		BuildID: uuid.New().String(),
		BuiltAt: time.Now().UTC(),
		Table:   reconciled,
	}

	est, err := predictor.NewEstimator(reconciled)
	if err != nil {
		s.logger.Warnf("Models not trained for build %s: %v", ds.BuildID, err)
	} else {
		ds.Estimator = est
	}

	if err := s.persist(ds); err != nil {
		s.logger.Errorf("Failed to persist build %s: %v", ds.BuildID, err)
	}

	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Flush(); err != nil {
			s.logger.Warnf("Failed to flush cache after rebuild: %v", err)
		}
	}

	s.logger.Infof("Dataset build %s complete: %d players", ds.BuildID, reconciled.Len())
	return ds, nil
}

// Current returns the latest build, or nil before the first one.
func (s *DatasetService) Current() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Players returns the reconciled rows of the current build.
func (s *DatasetService) Players() []table.Row {
	ds := s.Current()
	if ds == nil {
		return nil
	}
	return ds.Table.Rows()
}

// Player finds one reconciled row by exact name.
func (s *DatasetService) Player(name string) (table.Row, bool) {
	ds := s.Current()
	if ds == nil {
		return nil, false
	}
	for _, r := range ds.Table.Rows() {
		if r.Get(pipeline.ColPlayer).String() == name {
			return r, true
		}
	}
	return nil, false
}

// PlayerFeatures extracts the predictor vector for one player, ordered like
// the estimator's feature list.
func (s *DatasetService) PlayerFeatures(name string) ([]float64, bool) {
	row, ok := s.Player(name)
	if !ok {
		return nil, false
	}
	features := predictor.DefaultFeatures()
	vec := make([]float64, len(features))
	for j, col := range features {
		vec[j] = row.Get(col).FloatOr(0)
	}
	return vec, true
}

// Predict runs the named model over a feature vector, consulting the
// prediction cache first.
func (s *DatasetService) Predict(model string, features []float64) (float64, predictor.Summary, error) {
	ds := s.Current()
	if ds == nil || ds.Estimator == nil {
		return 0, predictor.Summary{}, fmt.Errorf("no trained models available")
	}

	var cacheKey string
	if s.cache != nil {
		input, _ := json.Marshal(features)
		cacheKey = PredictionCacheKey(ds.BuildID, model, string(input))
		var cached float64
		if err := s.cache.GetSimple(cacheKey, &cached); err == nil {
			summary, err := ds.Estimator.Summary(model)
			if err == nil {
				return cached, summary, nil
			}
		}
	}

	score, err := ds.Estimator.Predict(model, features)
	if err != nil {
		return 0, predictor.Summary{}, err
	}
	summary, err := ds.Estimator.Summary(model)
	if err != nil {
		return 0, predictor.Summary{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetSimple(cacheKey, score, time.Hour); err != nil {
			s.logger.Debugf("Prediction cache write failed: %v", err)
		}
	}
	return score, summary, nil
}

// Summary describes the current build.
func (s *DatasetService) Summary() (*DatasetSummary, error) {
	ds := s.Current()
	if ds == nil {
		return nil, fmt.Errorf("dataset has not been built yet")
	}
	out := &DatasetSummary{
		BuildID: ds.BuildID,
		BuiltAt: ds.BuiltAt,
		Players: ds.Table.Len(),
	}
	if ds.Estimator != nil {
		names := ds.Estimator.Features()
		means := ds.Estimator.FeatureMeans()
		for j, n := range names {
			fs := FeatureSummary{Name: n}
			if j < len(means) {
				fs.Mean = means[j]
			}
			out.Features = append(out.Features, fs)
		}
		out.Models = ds.Estimator.Summaries()
	}
	return out, nil
}

// Export writes the current reconciled table as a delimited file.
func (s *DatasetService) Export(w io.Writer) error {
	ds := s.Current()
	if ds == nil {
		return fmt.Errorf("dataset has not been built yet")
	}
	return table.WriteCSV(ds.Table, w)
}

// loadSource loads a required source, degrading to an empty table on any
// failure so downstream stages emit their empty-result sentinels.
func (s *DatasetService) loadSource(path, label string) *table.Table {
	t, err := loadTable(path)
	if err != nil {
		s.logger.Errorf("Failed to load %s from %s: %v", label, path, err)
		return table.Empty()
	}
	s.logger.Debugf("Loaded %s: %d rows from %s", label, t.Len(), path)
	return t
}

func loadTable(path string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls", ".xlsm":
		return table.LoadExcel(path)
	default:
		return table.LoadCSV(path)
	}
}

// persist replaces the stored player records with the new build's rows.
func (s *DatasetService) persist(ds *Dataset) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.AutoMigrate(&models.PlayerRecord{}); err != nil {
		return fmt.Errorf("failed to migrate player records: %w", err)
	}
	if err := s.db.Where("1 = 1").Delete(&models.PlayerRecord{}).Error; err != nil {
		return fmt.Errorf("failed to clear previous build: %w", err)
	}

	records := make([]models.PlayerRecord, 0, ds.Table.Len())
	for _, r := range ds.Table.Rows() {
		features := make(map[string]interface{}, len(ds.Table.Columns()))
		for _, col := range ds.Table.Columns() {
			v := r.Get(col)
			if f, ok := v.Float(); ok {
				features[col] = f
			} else {
				features[col] = v.String()
			}
		}
		raw, err := json.Marshal(features)
		if err != nil {
			return fmt.Errorf("failed to marshal features: %w", err)
		}
		records = append(records, models.PlayerRecord{
			BuildID:       ds.BuildID,
			Name:          r.Get(pipeline.ColPlayer).String(),
			PositionGroup: r.Get(pipeline.ColPositionGroup).String(),
			AllStarApps:   int(r.Get(pipeline.ColAllStarApps).FloatOr(0)),
			HighestWS:     r.Get(pipeline.ColHighestWS).FloatOr(0),
			HighestBPM:    r.Get(pipeline.ColHighestBPM).FloatOr(0),
			OverallPIE:    r.Get(pipeline.ColOverallPIE).String(),
			Features:      datatypes.JSON(raw),
		})
	}
	if len(records) == 0 {
		return nil
	}
	if err := s.db.CreateInBatches(records, 200).Error; err != nil {
		return fmt.Errorf("failed to insert player records: %w", err)
	}
	return nil
}
