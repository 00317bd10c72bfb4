// Package jobs is the board service's application layer. It ties the job
// store, the query engine and per-session filter state together and is
// transport-agnostic: both the REST handlers and the gRPC server call it.
package jobs

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"jobverse/internal/analytics"
	"jobverse/internal/errors"
	"jobverse/internal/events"
	"jobverse/internal/filter"
	"jobverse/internal/model"
	"jobverse/internal/query"
	"jobverse/internal/session"
	"jobverse/internal/store"
	"jobverse/internal/telemetry"
)

var tracer = telemetry.GetTracer("jobverse/jobs")

// maxTrackedSessions caps the sequencer table. Dropping a sequencer only
// forgets which result was newest, so the next result is accepted.
const maxTrackedSessions = 10000

// Options holds the Service collaborators. Publisher and Recorder may be
// nil, in which case events and analytics are discarded.
type Options struct {
	Store     store.JobStore
	Sessions  session.Store
	Engine    *query.Engine
	Publisher events.Publisher
	Recorder  analytics.Recorder
	Logger    *zap.Logger
	Clock     query.Clock
	PageSize  int
	NewID     func() string
}

// Service encapsulates all job-search business logic.
type Service struct {
	store     store.JobStore
	sessions  session.Store
	engine    *query.Engine
	publisher events.Publisher
	recorder  analytics.Recorder
	logger    *zap.Logger
	now       query.Clock
	pageSize  int
	newID     func() string

	seqMu sync.Mutex
	seqs  map[string]*filter.Sequencer
}

// NewService returns a configured Service.
func NewService(opts Options) *Service {
	s := &Service{
		store:     opts.Store,
		sessions:  opts.Sessions,
		engine:    opts.Engine,
		publisher: opts.Publisher,
		recorder:  opts.Recorder,
		logger:    opts.Logger,
		now:       opts.Clock,
		pageSize:  opts.PageSize,
		newID:     opts.NewID,
		seqs:      make(map[string]*filter.Sequencer),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.engine == nil {
		s.engine = query.NewEngine(s.now)
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher()
	}
	if s.recorder == nil {
		s.recorder = analytics.NopRecorder()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.pageSize <= 0 {
		s.pageSize = query.DefaultPageSize
	}
	if s.newID == nil {
		s.newID = events.NewEventID
	}
	return s
}

// ─── Stateless queries ───────────────────────────────────────────────────────

// Search runs c against the current corpus. pageSize <= 0 uses the service
// default. It never fails on empty or out-of-range results.
func (s *Service) Search(ctx context.Context, c filter.Criteria, page, pageSize int) (query.Page, error) {
	ctx, span := tracer.Start(ctx, "jobs.Search")
	defer span.End()

	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	res, err := s.runQuery(ctx, "", c, page, pageSize)
	if err != nil {
		span.RecordError(err)
		return query.Page{}, err
	}
	span.SetAttributes(telemetry.Int("jobs.total_items", res.Pagination.TotalItems))
	return res, nil
}

// GetJob returns one job and counts the view.
func (s *Service) GetJob(ctx context.Context, id string) (model.JobRecord, error) {
	ctx, span := tracer.Start(ctx, "jobs.GetJob")
	defer span.End()
	span.SetAttributes(telemetry.String("job.id", id))

	job, err := s.store.IncrementViews(ctx, id)
	if stderrors.Is(err, model.ErrJobNotFound) {
		return model.JobRecord{}, errors.NotFound("job "+id+" not found", err)
	}
	if err != nil {
		span.RecordError(err)
		return model.JobRecord{}, errors.Unavailable("job store", err)
	}

	ev := events.JobViewed{EventID: s.newID(), JobID: job.ID, Views: job.Views, At: s.now().UTC()}
	if err := s.publisher.PublishJobViewed(ctx, ev); err != nil {
		s.logger.Warn("publish jobs.viewed failed", zap.String("jobId", id), zap.Error(err))
	}
	return job, nil
}

// Similar returns jobs related to id by category or skill.
func (s *Service) Similar(ctx context.Context, id string, limit int) ([]model.JobRecord, error) {
	corpus, err := s.corpus(ctx)
	if err != nil {
		return nil, err
	}
	target, err := query.Lookup(corpus, id)
	if err != nil {
		return nil, errors.NotFound("job "+id+" not found", err)
	}
	return query.Similar(target, corpus, limit), nil
}

// Recommended returns jobs matching any of skills.
func (s *Service) Recommended(ctx context.Context, skills []string, limit int) ([]model.JobRecord, error) {
	corpus, err := s.corpus(ctx)
	if err != nil {
		return nil, err
	}
	return query.Recommend(skills, corpus, limit), nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (s *Service) corpus(ctx context.Context) ([]model.JobRecord, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, errors.Unavailable("job store", err)
	}
	return jobs, nil
}

// runQuery evaluates one page and reports the search. Reporting failures are
// logged and never fail the query.
func (s *Service) runQuery(ctx context.Context, sessionID string, c filter.Criteria, page, pageSize int) (query.Page, error) {
	corpus, err := s.corpus(ctx)
	if err != nil {
		return query.Page{}, err
	}
	res := s.engine.Query(corpus, c, page, pageSize)
	s.reportSearch(ctx, sessionID, c, res, pageSize)
	return res, nil
}

func (s *Service) reportSearch(ctx context.Context, sessionID string, c filter.Criteria, res query.Page, pageSize int) {
	raw, err := json.Marshal(c)
	if err != nil {
		s.logger.Warn("marshal criteria failed", zap.Error(err))
		return
	}
	ev := events.SearchPerformed{
		EventID:    s.newID(),
		SessionID:  sessionID,
		Criteria:   raw,
		Page:       res.Pagination.CurrentPage,
		PageSize:   pageSize,
		TotalItems: res.Pagination.TotalItems,
		At:         s.now().UTC(),
	}
	if err := s.publisher.PublishSearch(ctx, ev); err != nil {
		s.logger.Warn("publish jobs.searched failed", zap.Error(err))
	}
	if err := s.recorder.RecordSearch(ctx, ev); err != nil {
		s.logger.Warn("record search failed", zap.Error(err))
	}
}
