package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/config"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/logging"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/porter"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/store"
)

// ErrRunNotFound is returned for unknown or expired import run ids.
var ErrRunNotFound = errors.New("import run not found")

// ImportRun is a finished import kept for later inspection.
type ImportRun struct {
	ID        string               `json:"id"`
	Entity    string               `json:"entity"`
	FileName  string               `json:"file_name"`
	DryRun    bool                 `json:"dry_run"`
	StartedAt time.Time            `json:"started_at"`
	Duration  time.Duration        `json:"duration"`
	Client    Client               `json:"client"`
	Result    *porter.ImportResult `json:"result"`
}

// ExportRequest selects what an export contains.
type ExportRequest struct {
	Format string
	Search string
	Limit  uint64 // capped at the configured maximum; 0 means the maximum
	Title  string
	View   string
}

// Service runs imports and exports for catalog entities.
type Service struct {
	store    *store.Store
	exporter *porter.Exporter
	limiter  *JobLimiter

	importTimeout time.Duration
	resultTTL     time.Duration
	maxRows       uint64

	mu     sync.RWMutex
	runs   map[string]*ImportRun
	timers map[string]*time.Timer
}

// NewService wires a Service from configuration.
func NewService(db store.DBTX, storage porter.Storage, cfg *config.Config) (*Service, error) {
	policy, err := porter.ParseUnknownFormatPolicy(cfg.Export.UnknownFormat)
	if err != nil {
		return nil, fmt.Errorf("export policy: %w", err)
	}

	return &Service{
		store: store.New(db),
		exporter: &porter.Exporter{
			Storage:       storage,
			Dir:           cfg.Export.Dir,
			UnknownFormat: policy,
			UniqueSuffix:  cfg.Export.UniqueSuffix,
		},
		limiter:       NewJobLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		importTimeout: cfg.Import.Timeout,
		resultTTL:     cfg.Import.ResultTTL,
		maxRows:       uint64(cfg.Export.MaxRows),
		runs:          make(map[string]*ImportRun),
		timers:        make(map[string]*time.Timer),
	}, nil
}

// Entities returns every registered entity.
func (s *Service) Entities() []catalog.Info {
	defs := catalog.All()
	infos := make([]catalog.Info, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// EntitiesByGroup returns entities organized by group.
func (s *Service) EntitiesByGroup() map[string][]catalog.Info {
	result := make(map[string][]catalog.Info)
	for _, group := range catalog.Groups() {
		for _, def := range catalog.ByGroup(group) {
			result[group] = append(result[group], def.Info)
		}
	}
	return result
}

// Import loads src into the entity's table. Rows are written one at a time;
// a failing row is reported and the rest continue. Structural problems are
// in the returned run's Result.Err, while the error return is reserved for
// failures to start the run at all.
func (s *Service) Import(ctx context.Context, entity string, src porter.Source) (*ImportRun, error) {
	def, err := catalog.Lookup(entity)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, def, src, def.Validator(), s.processor(def))
}

// Validate checks src against the entity's rules without writing anything.
// Each rejected row lists every failing field, not just the first.
func (s *Service) Validate(ctx context.Context, entity string, src porter.Source) (*ImportRun, error) {
	def, err := catalog.Lookup(entity)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, def, src, def.DetailedValidator(), nil)
}

func (s *Service) run(ctx context.Context, def catalog.Definition, src porter.Source,
	validate porter.RowValidator, process porter.RowProcessor) (*ImportRun, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	// A client disconnect does not stop a run; only the import timeout does.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.importTimeout)
	defer cancel()

	run := &ImportRun{
		ID:        uuid.New().String(),
		Entity:    def.Info.Key,
		FileName:  src.Name(),
		DryRun:    process == nil,
		StartedAt: time.Now(),
		Client:    ClientFromContext(ctx),
	}
	log := logging.WithFields(ctx, "run_id", run.ID, "entity", run.Entity, "dry_run", run.DryRun)
	log.Info("import started", "file", run.FileName)

	run.Result = porter.Import(ctx, src, def.Columns(), porter.ImportOptions{
		Validator: validate,
		Processor: process,
	})
	run.Duration = time.Since(run.StartedAt)

	switch {
	case run.Result.Err != nil:
		log.Warn("import failed", "error", run.Result.Err)
	case run.Result.Interrupted != nil:
		log.Warn("import stopped early",
			"processed", run.Result.Processed,
			"skipped", run.Result.Skipped,
			"error", run.Result.Interrupted)
	default:
		log.Info("import finished",
			"processed", run.Result.Processed,
			"skipped", run.Result.Skipped,
			"duration", run.Duration)
	}

	s.keep(run)
	return run, nil
}

// processor writes one row, upserting when the entity has a natural key.
func (s *Service) processor(def catalog.Definition) porter.RowProcessor {
	table := def.Info.Table
	return func(ctx context.Context, row porter.Row) error {
		values := def.Values(row)
		var err error
		if def.ConflictColumn != "" {
			err = s.store.Upsert(ctx, table, def.ConflictColumn, values)
		} else {
			err = s.store.Insert(ctx, table, values)
		}
		if err == nil {
			return nil
		}
		logging.FromContext(ctx).Debug("row write failed", "table", table, "error", err)
		if IsUserFacing(err) {
			return errors.New(MapError(err).Message)
		}
		return err
	}
}

// keep stores run until the result TTL expires.
func (s *Service) keep(run *ImportRun) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	s.timers[run.ID] = time.AfterFunc(s.resultTTL, func() {
		s.forget(run.ID)
	})
}

func (s *Service) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
	delete(s.timers, id)
}

// Run returns a finished import by id.
func (s *Service) Run(id string) (*ImportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, nil
}

// ErrorLog writes the rejected rows of a run as "line,error" CSV.
// A fatal error or an early stop is written with an empty line number.
func (s *Service) ErrorLog(id string, w io.Writer) error {
	run, err := s.Run(id)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	records := [][]string{{"line", "error"}}
	if run.Result.Err != nil {
		records = append(records, []string{"", run.Result.Err.Error()})
	}
	for _, f := range run.Result.Failures {
		records = append(records, []string{strconv.Itoa(f.Line), f.Message})
	}
	if run.Result.Interrupted != nil {
		records = append(records, []string{"", run.Result.Errors[len(run.Result.Errors)-1]})
	}
	return cw.WriteAll(records)
}

// Template writes the header-only import template for entity.
func (s *Service) Template(entity string, w io.Writer) error {
	def, err := catalog.Lookup(entity)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	return cw.WriteAll([][]string{def.Columns().Labels()})
}

// Export writes the entity's rows to a file and returns its URL.
func (s *Service) Export(ctx context.Context, entity string, req ExportRequest) (string, error) {
	def, err := catalog.Lookup(entity)
	if err != nil {
		return "", err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}
	defer s.limiter.Release()

	limit := req.Limit
	if limit == 0 || limit > s.maxRows {
		limit = s.maxRows
	}

	rows, err := s.store.List(ctx, def.Info.Table, store.ListOptions{
		Columns:       def.SelectColumns(),
		Search:        req.Search,
		SearchColumns: def.SearchColumns,
		OrderBy:       def.OrderBy,
		Limit:         limit,
	})
	if err != nil {
		return "", fmt.Errorf("load %s: %w", def.Info.Key, err)
	}

	records := make([]any, len(rows))
	for i, r := range rows {
		records[i] = r
	}

	title := req.Title
	if title == "" {
		title = def.Info.Label
	}

	url, err := s.exporter.Export(ctx, porter.ExportJob{
		Format:  req.Format,
		Records: records,
		Columns: def.ExportColumns(),
		View:    req.View,
		Context: map[string]any{"title": title, "entity": def.Info.Key, "search": req.Search},
		Stem:    def.Info.Key,
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

// LimiterStatus reports the job limiter state.
func (s *Service) LimiterStatus() JobLimiterStatus {
	return s.limiter.Status()
}

// Drain waits for running jobs to finish, for graceful shutdown.
func (s *Service) Drain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Close drops retained runs and stops their expiry timers.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	clear(s.runs)
}
