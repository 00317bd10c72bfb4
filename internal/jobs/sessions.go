package jobs

import (
	"context"
	stderrors "errors"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"jobverse/internal/errors"
	"jobverse/internal/filter"
	"jobverse/internal/query"
	"jobverse/internal/session"
	"jobverse/internal/telemetry"
)

// SessionView is what session endpoints return. Result is nil for
// transitions that do not re-query (salary preview). Stale is set when a
// newer state of the same session already produced a result; callers must
// not render a stale result over a fresher one.
type SessionView struct {
	ID               string       `json:"id"`
	State            filter.State `json:"state"`
	HasActiveFilters bool         `json:"hasActiveFilters"`
	Result           *query.Page  `json:"result,omitempty"`
	Stale            bool         `json:"stale"`
}

// TextUpdate carries the free-text fields. A nil field is left unchanged.
type TextUpdate struct {
	Query    *string `json:"query,omitempty"`
	Location *string `json:"location,omitempty"`
}

// CreateSession starts a session with empty criteria and returns page 1.
func (s *Service) CreateSession(ctx context.Context) (SessionView, error) {
	id := s.newID()
	st := filter.NewState()
	if err := s.sessions.Create(ctx, id, st); err != nil {
		return SessionView{}, errors.Unavailable("session store", err)
	}
	return s.present(ctx, id, st, true)
}

// GetSession returns the stored state and its current page.
func (s *Service) GetSession(ctx context.Context, id string) (SessionView, error) {
	st, err := s.sessions.Get(ctx, id)
	if err != nil {
		return SessionView{}, mapSessionErr(id, err)
	}
	return s.present(ctx, id, st, true)
}

// DeleteSession forgets a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	s.seqMu.Lock()
	delete(s.seqs, id)
	s.seqMu.Unlock()

	if err := s.sessions.Delete(ctx, id); err != nil {
		return errors.Unavailable("session store", err)
	}
	return nil
}

// Toggle adds or removes value in a multi-valued dimension.
func (s *Service) Toggle(ctx context.Context, id, dimension, value string) (SessionView, error) {
	dim, err := filter.ParseDimension(dimension)
	if err != nil {
		return SessionView{}, errors.InvalidInput(err.Error(), err)
	}
	return s.apply(ctx, id, "toggle", true, func(st filter.State) (filter.State, error) {
		next, err := st.Toggle(dim, value)
		if err != nil {
			return st, errors.InvalidInput(err.Error(), err)
		}
		return next, nil
	})
}

// SetText updates the free-text query and/or location.
func (s *Service) SetText(ctx context.Context, id string, u TextUpdate) (SessionView, error) {
	if u.Query == nil && u.Location == nil {
		return SessionView{}, errors.InvalidInput("query or location is required", nil)
	}
	return s.apply(ctx, id, "text", true, func(st filter.State) (filter.State, error) {
		if u.Query != nil {
			st = st.SetQuery(*u.Query)
		}
		if u.Location != nil {
			st = st.SetLocation(*u.Location)
		}
		return st, nil
	})
}

// SetPostedWithin sets the posted-within window in days; nil clears it.
func (s *Service) SetPostedWithin(ctx context.Context, id string, days *int) (SessionView, error) {
	return s.apply(ctx, id, "postedWithin", true, func(st filter.State) (filter.State, error) {
		if days == nil {
			return st.ClearPostedWithin(), nil
		}
		return st.SetPostedWithin(*days), nil
	})
}

// PreviewSalary moves the salary slider without re-querying.
func (s *Service) PreviewSalary(ctx context.Context, id string, r filter.SalaryRange) (SessionView, error) {
	return s.apply(ctx, id, "salaryPreview", false, func(st filter.State) (filter.State, error) {
		return st.PreviewSalary(r), nil
	})
}

// CommitSalary commits the slider position. A non-nil r is previewed first,
// so a client may commit its final position in one call.
func (s *Service) CommitSalary(ctx context.Context, id string, r *filter.SalaryRange) (SessionView, error) {
	return s.apply(ctx, id, "salaryCommit", true, func(st filter.State) (filter.State, error) {
		if r != nil {
			st = st.PreviewSalary(*r)
		}
		return st.CommitSalary(), nil
	})
}

// Clear resets the session to the canonical empty criteria.
func (s *Service) Clear(ctx context.Context, id string) (SessionView, error) {
	return s.apply(ctx, id, "clear", true, func(st filter.State) (filter.State, error) {
		return st.Clear(), nil
	})
}

// SetPage moves to another page without touching the criteria.
func (s *Service) SetPage(ctx context.Context, id string, page int) (SessionView, error) {
	return s.apply(ctx, id, "page", true, func(st filter.State) (filter.State, error) {
		next, err := st.SetPage(page)
		if err != nil {
			return st, errors.InvalidInput(err.Error(), err)
		}
		return next, nil
	})
}

// apply runs one state transition atomically in the session store and, when
// requery is set, evaluates the resulting page.
func (s *Service) apply(ctx context.Context, id, op string, requery bool, fn session.MutateFunc) (SessionView, error) {
	ctx, span := tracer.Start(ctx, "jobs.ApplyMutation")
	defer span.End()
	span.SetAttributes(
		telemetry.String("session.id", id),
		telemetry.String("mutation", op),
	)

	st, err := s.sessions.Update(ctx, id, fn)
	if err != nil {
		span.RecordError(err)
		return SessionView{}, mapSessionErr(id, err)
	}
	span.SetAttributes(telemetry.Int("session.seq", int(st.Seq)))

	return s.present(ctx, id, st, requery)
}

func (s *Service) present(ctx context.Context, id string, st filter.State, requery bool) (SessionView, error) {
	view := SessionView{ID: id, State: st, HasActiveFilters: st.HasActiveFilters()}
	if !requery {
		return view, nil
	}

	res, err := s.runQuery(ctx, id, st.Criteria, st.Page, s.pageSize)
	if err != nil {
		return SessionView{}, err
	}
	view.Result = &res
	seq := s.sequencer(id)
	view.Stale = !seq.Accept(st.Seq)
	trace.SpanFromContext(ctx).SetAttributes(telemetry.Bool("session.stale", view.Stale))
	if view.Stale {
		s.logger.Debug("discarding stale session result",
			zap.String("sessionId", id),
			zap.Uint64("seq", st.Seq),
			zap.Uint64("latest", seq.Latest()))
	}
	return view, nil
}

func (s *Service) sequencer(id string) *filter.Sequencer {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	if seq, ok := s.seqs[id]; ok {
		return seq
	}
	if len(s.seqs) >= maxTrackedSessions {
		clear(s.seqs)
	}
	seq := &filter.Sequencer{}
	s.seqs[id] = seq
	return seq
}

func mapSessionErr(id string, err error) error {
	var de *errors.DomainError
	if stderrors.As(err, &de) {
		return err
	}
	if stderrors.Is(err, session.ErrSessionNotFound) {
		return errors.NotFound("session "+id+" not found", err)
	}
	return errors.Unavailable("session store", err)
}
