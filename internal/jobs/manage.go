package jobs

import (
	"context"
	stderrors "errors"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"jobverse/internal/errors"
	"jobverse/internal/model"
	"jobverse/internal/telemetry"
)

// CreateJob posts j on behalf of userID, who becomes its owner. The service
// assigns the id, the posting time and the counters. A new job lists after
// every existing one.
func (s *Service) CreateJob(ctx context.Context, userID string, j model.JobRecord) (model.JobRecord, error) {
	ctx, span := tracer.Start(ctx, "jobs.CreateJob")
	defer span.End()

	if userID == "" {
		return model.JobRecord{}, errors.Unauthorized("x-user-id header required")
	}
	j.ID = s.newID()
	j.Employer.OwnerID = userID
	j.PostedAt = s.now().UTC()
	j.Applications, j.Views = 0, 0
	if j.Status == "" {
		j.Status = model.JobStatusOpen
	}
	if err := j.Validate(); err != nil {
		return model.JobRecord{}, errors.InvalidInput(err.Error(), err)
	}

	created, err := s.store.CreateJob(ctx, j)
	if stderrors.Is(err, model.ErrJobExists) {
		return model.JobRecord{}, errors.Conflict("job "+j.ID+" already exists", err)
	}
	if err != nil {
		span.RecordError(err)
		return model.JobRecord{}, errors.Unavailable("job store", err)
	}
	span.SetAttributes(telemetry.String("job.id", created.ID))
	s.logger.Info("job created", zap.String("jobId", created.ID), zap.String("ownerId", userID))
	return created, nil
}

// UpdateJob applies patch to job id. Only the owner may edit a posting.
func (s *Service) UpdateJob(ctx context.Context, id, userID string, patch model.JobPatch) (model.JobRecord, error) {
	ctx, span := tracer.Start(ctx, "jobs.UpdateJob")
	defer span.End()
	span.SetAttributes(telemetry.String("job.id", id))

	if userID == "" {
		return model.JobRecord{}, errors.Unauthorized("x-user-id header required")
	}
	updated, err := s.store.UpdateJob(ctx, id, func(j *model.JobRecord) error {
		if j.Employer.OwnerID != userID {
			return errors.Forbidden("only the employer who posted job "+id+" can edit it", nil)
		}
		next := patch.Apply(*j)
		if err := next.Validate(); err != nil {
			return errors.InvalidInput(err.Error(), err)
		}
		*j = next
		return nil
	})
	if err != nil {
		return model.JobRecord{}, jobStoreError(ctx, id, err)
	}
	s.logger.Info("job updated", zap.String("jobId", id))
	return updated, nil
}

// DeleteJob removes job id. Only the owner may delete a posting.
func (s *Service) DeleteJob(ctx context.Context, id, userID string) error {
	ctx, span := tracer.Start(ctx, "jobs.DeleteJob")
	defer span.End()
	span.SetAttributes(telemetry.String("job.id", id))

	if _, err := s.OwnedJob(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.DeleteJob(ctx, id); err != nil {
		return jobStoreError(ctx, id, err)
	}
	s.logger.Info("job deleted", zap.String("jobId", id))
	return nil
}

// OwnedJob returns job id when userID owns it. It does not count a view.
func (s *Service) OwnedJob(ctx context.Context, id, userID string) (model.JobRecord, error) {
	if userID == "" {
		return model.JobRecord{}, errors.Unauthorized("x-user-id header required")
	}
	j, err := s.store.GetJob(ctx, id)
	if stderrors.Is(err, model.ErrJobNotFound) {
		return model.JobRecord{}, errors.NotFound("job "+id+" not found", err)
	}
	if err != nil {
		return model.JobRecord{}, errors.Unavailable("job store", err)
	}
	if j.Employer.OwnerID != userID {
		return model.JobRecord{}, errors.Forbidden("job "+id+" belongs to another employer", nil)
	}
	return j, nil
}

// jobStoreError keeps domain errors from the update callback and classifies
// store failures.
func jobStoreError(ctx context.Context, id string, err error) error {
	var de *errors.DomainError
	switch {
	case stderrors.As(err, &de):
		return err
	case stderrors.Is(err, model.ErrJobNotFound):
		return errors.NotFound("job "+id+" not found", err)
	default:
		trace.SpanFromContext(ctx).RecordError(err)
		return errors.Unavailable("job store", err)
	}
}
