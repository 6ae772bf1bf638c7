package app

import (
	"context"
	"time"

	"godescribe/domain/core"
	"godescribe/domain/dataset"
	"godescribe/domain/stats/describe"
	"godescribe/internal"
	analysis "godescribe/internal/analysis/describe"
	"godescribe/internal/config"
	"godescribe/internal/errors"
	"godescribe/ports"

	"github.com/dgraph-io/ristretto"
)

// DescribeResult is a report together with where it came from
type DescribeResult struct {
	ID          core.ReportID
	Fingerprint core.Fingerprint
	LabelColumn string
	Report      *describe.Report
	CreatedAt   time.Time
	// Cached is true when the report was not recomputed
	Cached bool
}

// DescribeService computes reports for tables, reusing earlier results for
// identical tables. Persistence is optional.
type DescribeService struct {
	engine *analysis.Engine
	repo   ports.ReportRepository
	cache  *ristretto.Cache
	logger *internal.Logger
}

// NewDescribeService wires the engine, an optional repository and the
// report cache
func NewDescribeService(engine *analysis.Engine, repo ports.ReportRepository, cacheConfig config.CacheConfig, logger *internal.Logger) (*DescribeService, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &DescribeService{
		engine: engine,
		repo:   repo,
		logger: logger.With("DescribeService"),
	}
	if cacheConfig.Enabled {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e4,
			MaxCost:     cacheConfig.MaxCost,
			BufferItems: 64,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create report cache")
		}
		s.cache = cache
	}
	return s, nil
}

// Close releases the cache
func (s *DescribeService) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// Describe returns the report of t. An empty label uses the engine's label
// column.
func (s *DescribeService) Describe(ctx context.Context, t *dataset.Table, label string) (*DescribeResult, error) {
	engine := s.engine
	if label == "" {
		label = engine.LabelColumn()
	} else if label != engine.LabelColumn() {
		engine = engine.WithLabelColumn(label)
	}
	fp := t.Fingerprint()
	key := cacheKey(fp, label)

	if cached, ok := s.fromCache(key); ok {
		s.logger.Debug("cache hit for %s", fp.Short())
		return cached, nil
	}

	if s.repo != nil {
		stored, err := s.repo.GetByFingerprint(ctx, fp, label)
		switch {
		case err == nil:
			s.logger.Debug("stored report %s reused for %s", stored.ID, fp.Short())
			result := resultFromStored(stored)
			s.store(key, result)
			result.Cached = true
			return result, nil
		case !isNotFound(err):
			return nil, err
		}
	}

	start := time.Now()
	report, err := engine.Describe(ctx, t)
	if err != nil {
		return nil, err
	}
	result := &DescribeResult{
		ID:          core.NewReportID(),
		Fingerprint: fp,
		LabelColumn: label,
		Report:      report,
		CreatedAt:   time.Now().UTC(),
	}
	s.logger.Info("described %d columns in %.2fms (report %s)", report.Len(), float64(time.Since(start).Nanoseconds())/1e6, result.ID)

	if s.repo != nil {
		if err := s.repo.Save(ctx, &ports.StoredReport{
			ID:          result.ID,
			Fingerprint: result.Fingerprint,
			LabelColumn: result.LabelColumn,
			Report:      result.Report,
			CreatedAt:   result.CreatedAt,
		}); err != nil {
			return nil, err
		}
	}
	s.store(key, result)
	return result, nil
}

// GetReport loads a stored report by id
func (s *DescribeService) GetReport(ctx context.Context, id string) (*DescribeResult, error) {
	reportID, err := core.ParseReportID(id)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	if s.repo == nil {
		return nil, errors.NotFound("report " + reportID.String() + " (persistence disabled)")
	}
	stored, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	result := resultFromStored(stored)
	result.Cached = true
	return result, nil
}

func (s *DescribeService) fromCache(key string) (*DescribeResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	result := *v.(*DescribeResult)
	result.Cached = true
	return &result, true
}

// store caches a result. Sets are applied asynchronously and may be dropped.
func (s *DescribeService) store(key string, result *DescribeResult) {
	if s.cache == nil {
		return
	}
	s.cache.Set(key, result, reportCost(result.Report))
}

func cacheKey(fp core.Fingerprint, label string) string {
	return fp.String() + "\x00" + label
}

// reportCost approximates the memory held by a cached report
func reportCost(r *describe.Report) int64 {
	return int64(256 + r.Len()*describe.NumKeys*64)
}

func resultFromStored(stored *ports.StoredReport) *DescribeResult {
	return &DescribeResult{
		ID:          stored.ID,
		Fingerprint: stored.Fingerprint,
		LabelColumn: stored.LabelColumn,
		Report:      stored.Report,
		CreatedAt:   stored.CreatedAt,
	}
}

func isNotFound(err error) bool {
	return core.IsNotFoundError(err) || errors.GetCode(err) == errors.CodeNotFound
}
