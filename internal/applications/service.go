package applications

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"jobverse/internal/errors"
	"jobverse/internal/events"
	"jobverse/internal/model"
	"jobverse/internal/telemetry"
)

var tracer = telemetry.GetTracer("jobverse/applications")

// Jobs is the part of the job store applications need. store.JobStore
// satisfies it.
type Jobs interface {
	GetJob(ctx context.Context, id string) (model.JobRecord, error)
	IncrementApplications(ctx context.Context, id string) (model.JobRecord, error)
}

// Publisher emits status changes. events.Publisher satisfies it.
type Publisher interface {
	PublishApplicationMoved(ctx context.Context, ev events.ApplicationMoved) error
}

// Options holds the Service collaborators. Publisher may be nil.
type Options struct {
	Store     Store
	Jobs      Jobs
	Publisher Publisher
	Logger    *zap.Logger
	Clock     func() time.Time
	NewID     func() string
}

// ApplyRequest is what a job seeker submits.
type ApplyRequest struct {
	ResumeID    string `json:"resumeId"`
	CoverLetter string `json:"coverLetter"`
}

// Service holds the application rules. It is transport-agnostic.
type Service struct {
	store     Store
	jobs      Jobs
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService returns a configured Service.
func NewService(opts Options) *Service {
	s := &Service{
		store:     opts.Store,
		jobs:      opts.Jobs,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		now:       opts.Clock,
		newID:     opts.NewID,
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = events.NewEventID
	}
	return s
}

// Apply submits userID's application to jobID. The job must be open, the
// user must not own it, and a user applies to a job at most once. A
// successful application bumps the job's application count.
func (s *Service) Apply(ctx context.Context, userID, jobID string, req ApplyRequest) (Application, error) {
	ctx, span := tracer.Start(ctx, "applications.Apply")
	defer span.End()
	span.SetAttributes(telemetry.String("job.id", jobID))

	if userID == "" {
		return Application{}, errors.Unauthorized("x-user-id header required")
	}
	job, err := s.job(ctx, jobID)
	if err != nil {
		return Application{}, err
	}
	if job.Status != model.JobStatusOpen {
		return Application{}, errors.Conflict("job "+jobID+" is no longer accepting applications", nil)
	}
	if job.Employer.OwnerID == userID {
		return Application{}, errors.Forbidden("employers cannot apply to their own jobs", nil)
	}

	now := s.now().UTC()
	created, err := s.store.Create(ctx, Application{
		ID:          s.newID(),
		JobID:       jobID,
		UserID:      userID,
		ResumeID:    req.ResumeID,
		CoverLetter: req.CoverLetter,
		Status:      StatusPending,
		AppliedAt:   now,
		UpdatedAt:   now,
	})
	if stderrors.Is(err, ErrDuplicate) {
		return Application{}, errors.Conflict("you have already applied to job "+jobID, err)
	}
	if err != nil {
		span.RecordError(err)
		return Application{}, errors.Unavailable("application store", err)
	}

	// The application stands even if the counter cannot be bumped.
	if _, err := s.jobs.IncrementApplications(ctx, jobID); err != nil {
		s.logger.Warn("increment applications failed", zap.String("jobId", jobID), zap.Error(err))
	}
	s.logger.Info("application submitted",
		zap.String("applicationId", created.ID),
		zap.String("jobId", jobID),
		zap.String("userId", userID))
	return created, nil
}

// Move changes the status of application id. Only the owner of the job may
// move it, and only along the status graph.
func (s *Service) Move(ctx context.Context, userID, id, newStatus string) (Application, error) {
	ctx, span := tracer.Start(ctx, "applications.Move")
	defer span.End()
	span.SetAttributes(telemetry.String("application.id", id))

	if userID == "" {
		return Application{}, errors.Unauthorized("x-user-id header required")
	}
	to, err := ParseStatus(newStatus)
	if err != nil {
		return Application{}, errors.InvalidInput(err.Error(), err)
	}
	current, err := s.get(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if err := s.requireOwner(ctx, current.JobID, userID); err != nil {
		return Application{}, err
	}

	var from Status
	moved, err := s.store.Update(ctx, id, func(a *Application) error {
		from = a.Status
		if !IsTransitionAllowed(from, to) {
			return errors.InvalidInput("transition "+string(from)+" → "+string(to)+" is not allowed", nil)
		}
		now := s.now().UTC()
		a.Status = to
		a.UpdatedAt = now
		a.History = append(a.History, HistoryEntry{From: from, To: to, At: now})
		return nil
	})
	if err != nil {
		return Application{}, storeError(ctx, id, err)
	}

	ev := events.ApplicationMoved{
		EventID:       s.newID(),
		ApplicationID: moved.ID,
		JobID:         moved.JobID,
		UserID:        moved.UserID,
		From:          string(from),
		To:            string(to),
		At:            moved.UpdatedAt,
	}
	if err := s.publisher.PublishApplicationMoved(ctx, ev); err != nil {
		s.logger.Warn("publish applications.moved failed", zap.String("applicationId", id), zap.Error(err))
	}
	s.logger.Info("application moved",
		zap.String("applicationId", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return moved, nil
}

// Get returns application id to its applicant or to the job's owner.
func (s *Service) Get(ctx context.Context, userID, id string) (Application, error) {
	if userID == "" {
		return Application{}, errors.Unauthorized("x-user-id header required")
	}
	a, err := s.get(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if a.UserID == userID {
		return a, nil
	}
	if err := s.requireOwner(ctx, a.JobID, userID); err != nil {
		return Application{}, err
	}
	return a, nil
}

// ListForUser returns userID's applications in submission order.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Application, error) {
	if userID == "" {
		return nil, errors.Unauthorized("x-user-id header required")
	}
	out, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Unavailable("application store", err)
	}
	return out, nil
}

// ListForJob returns the applications to jobID. Only its owner may list them.
func (s *Service) ListForJob(ctx context.Context, userID, jobID string) ([]Application, error) {
	if userID == "" {
		return nil, errors.Unauthorized("x-user-id header required")
	}
	if err := s.requireOwner(ctx, jobID, userID); err != nil {
		return nil, err
	}
	out, err := s.store.ListByJob(ctx, jobID)
	if err != nil {
		return nil, errors.Unavailable("application store", err)
	}
	return out, nil
}

func (s *Service) job(ctx context.Context, id string) (model.JobRecord, error) {
	job, err := s.jobs.GetJob(ctx, id)
	if stderrors.Is(err, model.ErrJobNotFound) {
		return model.JobRecord{}, errors.NotFound("job "+id+" not found", err)
	}
	if err != nil {
		return model.JobRecord{}, errors.Unavailable("job store", err)
	}
	return job, nil
}

func (s *Service) requireOwner(ctx context.Context, jobID, userID string) error {
	job, err := s.job(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Employer.OwnerID != userID {
		return errors.Forbidden("only the employer who posted job "+jobID+" can manage its applications", nil)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id string) (Application, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return Application{}, storeError(ctx, id, err)
	}
	return a, nil
}

// storeError keeps domain errors from an update callback and classifies
// store failures.
func storeError(ctx context.Context, id string, err error) error {
	var de *errors.DomainError
	switch {
	case stderrors.As(err, &de):
		return err
	case stderrors.Is(err, ErrNotFound):
		return errors.NotFound("application "+id+" not found", err)
	default:
		trace.SpanFromContext(ctx).RecordError(err)
		return errors.Unavailable("application store", err)
	}
}
