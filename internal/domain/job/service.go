package job

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/domain/auth"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

// Events receives notifications about created postings
type Events interface {
	PublishJobCreated(ctx context.Context, job domain.Record) error
}

// Option configures Service
type Option func(*Service)

// WithEvents sets the event publisher
func WithEvents(events Events) Option {
	return func(s *Service) {
		s.events = events
	}
}

// Service creates job postings on behalf of recruiters
type Service struct {
	store    repository.Store
	events   Events
	validate *validator.Validate
	logger   *logging.Logger
}

// NewService builds Service from options
func NewService(store repository.Store, logger *logging.Logger, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("job.Service: store is required")
	}

	s := &Service{
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Create validates input, checks the caller's role and inserts the posting.
// Input validation runs first, so a blank title is rejected for every caller.
func (s *Service) Create(ctx context.Context, input map[string]any) (domain.Record, error) {
	job, err := Normalize(input)
	if err != nil {
		return nil, err
	}

	identity, err := auth.AuthorizeContext(ctx, domain.RoleRecruiter)
	if err != nil {
		s.logger.Info("job creation rejected", "err", err)
		return nil, err
	}
	job.CreatedBy = identity.ID

	if err := s.validateJob(job); err != nil {
		return nil, err
	}

	row, err := s.store.Insert(ctx, domain.CollectionJobs, job.Values())
	if err != nil {
		return nil, &domain.QueryExecutionError{Message: err.Error(), Status: http.StatusBadRequest, Err: err}
	}

	s.logger.Info("job created", "id", row["id"], "created_by", identity.ID)

	if s.events != nil {
		if err := s.events.PublishJobCreated(ctx, row); err != nil {
			s.logger.Warn("failed to publish job created event", "id", row["id"], "err", err)
		}
	}

	return row, nil
}

// Normalize reads a loosely typed payload into a Job. Optional fields keep
// their value only when it has the expected type.
func Normalize(input map[string]any) (domain.Job, error) {
	title, _ := input["title"].(string)
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Job{}, domain.NewValidationError("title", "'title' is required and must be a non-empty string")
	}

	job := domain.Job{
		Title:       title,
		Description: optionalString(input["description"]),
		Location:    optionalString(input["location"]),
		Company:     optionalString(input["company"]),
		Type:        optionalString(input["type"]),
		JD:          optionalString(input["jd"]),
	}

	switch v := input["salary"].(type) {
	case string, float64, int, int64:
		job.Salary = v
	}

	if meta, ok := input["metadata"].(map[string]any); ok {
		job.Metadata = meta
	}

	return job, nil
}

func (s *Service) validateJob(job domain.Job) error {
	err := s.validate.Struct(job)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(fe.Field(), "%s failed on '%s' validation", fe.Field(), fe.Tag())
	}
	return domain.NewValidationError("", "%v", err)
}

func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
