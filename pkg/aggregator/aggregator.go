// Package aggregator collects every professor of a school and all of their
// reviews, then writes both tables to disk.
//
// A run moves through three stages, each a distinct type:
//
//	agg := aggregator.New(schoolID, source)
//	profs, err := agg.FetchProfessors(ctx)  // *ProfessorsFetched
//	reviews, err := profs.FetchReviews(ctx) // *ReviewsFetched
//	out, err := reviews.Export(ctx, exporter, dir)
//
// Requests are issued one at a time, in page order.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/rmp-client/pkg/client"
	"github.com/Sternrassler/rmp-client/pkg/logging"
	"github.com/Sternrassler/rmp-client/pkg/pagination"
	"github.com/Sternrassler/rmp-client/pkg/progress"
	"github.com/Sternrassler/rmp-client/pkg/rmp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	// ErrNoInstitution is returned when the first listing page of a school is empty.
	ErrNoInstitution = errors.New("school has no listed professors")

	// ErrNoProfessors is returned by FetchReviews on an empty professor table.
	ErrNoProfessors = errors.New("professor table is empty")

	// ErrEmptyTables is returned by Export when either table has no rows.
	ErrEmptyTables = errors.New("professor or review table is empty")
)

var tracer = otel.Tracer("rmp/aggregator")

// Source serves listing and ratings pages. *rmp.API implements it.
type Source interface {
	ProfessorPage(ctx context.Context, schoolID, page int) (*rmp.ProfessorPage, error)
	RatingsPage(ctx context.Context, professorID int64, page int) (*rmp.RatingsPage, error)
}

// Aggregator is a run for one school that has not fetched anything yet.
type Aggregator struct {
	schoolID       int
	source         Source
	logger         zerolog.Logger
	progress       progress.Factory
	pageSize       int
	reuseFirstPage bool
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger replaces the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithProgress sets the progress factory. The default discards progress.
func WithProgress(f progress.Factory) Option {
	return func(a *Aggregator) {
		if f != nil {
			a.progress = f
		}
	}
}

// WithPageSize overrides the page size used to turn counts into page counts.
func WithPageSize(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.pageSize = n
		}
	}
}

// WithFirstPageReuse uses the page fetched to count records as page 1
// instead of requesting it a second time.
func WithFirstPageReuse(reuse bool) Option {
	return func(a *Aggregator) {
		a.reuseFirstPage = reuse
	}
}

// New creates an aggregator for schoolID. It does not touch the network.
func New(schoolID int, source Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		schoolID: schoolID,
		source:   source,
		logger:   logging.NewLogger(logging.ComponentAggregator),
		progress: progress.Nop{},
		pageSize: pagination.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With().Int("school_id", schoolID).Logger()
	return a
}

// SchoolID returns the school this aggregator was created for.
func (a *Aggregator) SchoolID() int {
	return a.schoolID
}

// ProfessorsFetched holds the professor table of a school.
type ProfessorsFetched struct {
	agg *Aggregator

	// SchoolName is taken from the first listed professor.
	SchoolName string

	// Professors in listing order. Every row carries SchoolName.
	Professors []rmp.Professor
}

// FetchProfessors counts the school's professors, then walks every listing
// page. Each call returns a new table.
func (a *Aggregator) FetchProfessors(ctx context.Context) (result *ProfessorsFetched, err error) {
	ctx, span := tracer.Start(ctx, "FetchProfessors")
	span.SetAttributes(attribute.Int("rmp.school_id", a.schoolID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()

	first, err := a.source.ProfessorPage(ctx, a.schoolID, 1)
	if err != nil {
		a.logger.Error().Err(err).Msg("Could not count professors")
		return nil, fmt.Errorf("count professors: %w", err)
	}
	pagesFetched.WithLabelValues(phaseProfessors).Inc()

	if len(first.Professors) == 0 {
		a.logger.Error().Msg("No professors listed")
		return nil, fmt.Errorf("%w: school %d", ErrNoInstitution, a.schoolID)
	}

	schoolName := first.Professors[0].InstitutionName
	total := pagination.Total(first.Remaining, len(first.Professors))
	pages := pagination.PageCount(total, a.pageSize)

	a.logger.Info().
		Str("school_name", schoolName).
		Int("total", total).
		Int("pages", pages).
		Msg("Fetching professors")

	reporter := a.progress.Start("professors", pages)
	profs, err := pagination.Collect(ctx, pages, func(ctx context.Context, page int) ([]rmp.Professor, error) {
		if page == 1 && a.reuseFirstPage {
			return first.Professors, nil
		}
		result, err := a.source.ProfessorPage(ctx, a.schoolID, page)
		if err != nil {
			return nil, err
		}
		pagesFetched.WithLabelValues(phaseProfessors).Inc()
		return result.Professors, nil
	}, func(int, int) {
		reporter.Increment()
	})
	reporter.Done()
	if err != nil {
		a.logger.Error().Err(err).Msg("Fetching professors failed")
		return nil, fmt.Errorf("fetch professors: %w", err)
	}

	for i := range profs {
		profs[i].InstitutionName = schoolName
	}
	professorsFetched.Add(float64(len(profs)))
	span.SetAttributes(attribute.Int("rmp.professors", len(profs)))

	a.logger.Info().
		Str("school_name", schoolName).
		Int("professors", len(profs)).
		Dur("duration", time.Since(start)).
		Msg("Professors fetched")

	return &ProfessorsFetched{
		agg:        a,
		SchoolName: schoolName,
		Professors: profs,
	}, nil
}

// ReviewsFetched holds both tables of a school.
type ReviewsFetched struct {
	agg *Aggregator

	SchoolName string
	Professors []rmp.Professor

	// Reviews in professor order, then page order. Each carries the
	// owning professor's id, names and department.
	Reviews []rmp.Review

	// Skipped lists professors whose ratings could not be fetched.
	Skipped []int64
}

// FetchReviews collects the reviews of every professor in table order. A
// professor whose ratings cannot be fetched or read is skipped and the run
// continues; only cancellation of ctx ends it early.
func (p *ProfessorsFetched) FetchReviews(ctx context.Context) (result *ReviewsFetched, err error) {
	a := p.agg
	if len(p.Professors) == 0 {
		a.logger.Warn().Msg("No professors to fetch reviews for; fetch professors first")
		return nil, ErrNoProfessors
	}

	ctx, span := tracer.Start(ctx, "FetchReviews")
	span.SetAttributes(
		attribute.Int("rmp.school_id", a.schoolID),
		attribute.Int("rmp.professors", len(p.Professors)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()
	a.logger.Info().
		Str("school_name", p.SchoolName).
		Int("professors", len(p.Professors)).
		Msg("Fetching reviews")

	var (
		reviews []rmp.Review
		skipped []int64
	)

	reporter := a.progress.Start("reviews", len(p.Professors))
	defer reporter.Done()

	for _, prof := range p.Professors {
		got, err := a.professorReviews(ctx, prof)
		switch {
		case err == nil:
			reviews = append(reviews, got...)
			reviewsFetched.Add(float64(len(got)))
		case skippable(err):
			a.logger.Warn().
				Err(err).
				Int64("professor_id", prof.ID).
				Msg("Professor could not be fetched, moving to next professor")
			skipped = append(skipped, prof.ID)
			professorsSkipped.Inc()
		default:
			a.logger.Error().Err(err).Int64("professor_id", prof.ID).Msg("Fetching reviews cancelled")
			return nil, fmt.Errorf("reviews of professor %d: %w", prof.ID, err)
		}
		reporter.Increment()
	}

	span.SetAttributes(
		attribute.Int("rmp.reviews", len(reviews)),
		attribute.Int("rmp.skipped", len(skipped)),
	)
	a.logger.Info().
		Int("reviews", len(reviews)).
		Int("skipped", len(skipped)).
		Dur("duration", time.Since(start)).
		Msg("Reviews fetched")

	return &ReviewsFetched{
		agg:        a,
		SchoolName: p.SchoolName,
		Professors: p.Professors,
		Reviews:    reviews,
		Skipped:    skipped,
	}, nil
}

// professorReviews returns every review of prof tagged with prof's fields.
// tNumRatings is trusted when present; otherwise page 1 is requested to count.
func (a *Aggregator) professorReviews(ctx context.Context, prof rmp.Professor) ([]rmp.Review, error) {
	var first *rmp.RatingsPage

	count, known := prof.RatingCount()
	if !known {
		page, err := a.source.RatingsPage(ctx, prof.ID, 1)
		if err != nil {
			return nil, fmt.Errorf("count ratings: %w", err)
		}
		pagesFetched.WithLabelValues(phaseReviews).Inc()
		first = page
		count = pagination.Total(page.Remaining, len(page.Ratings))
	}

	pages := pagination.PageCount(count, a.pageSize)
	a.logger.Debug().
		Int64("professor_id", prof.ID).
		Int("ratings", count).
		Int("pages", pages).
		Bool("count_from_listing", known).
		Msg("Fetching ratings")

	ratings, err := pagination.Collect(ctx, pages, func(ctx context.Context, page int) ([]rmp.Review, error) {
		if page == 1 && first != nil && a.reuseFirstPage {
			return first.Ratings, nil
		}
		result, err := a.source.RatingsPage(ctx, prof.ID, page)
		if err != nil {
			return nil, err
		}
		pagesFetched.WithLabelValues(phaseReviews).Inc()
		return result.Ratings, nil
	}, nil)
	if err != nil {
		return nil, err
	}

	for i := range ratings {
		ratings[i] = ratings[i].WithProfessor(prof)
	}
	return ratings, nil
}

// skippable reports whether err only concerns the professor being fetched.
// Every failure of a professor's ratings is confined to that professor,
// except cancellation of the run itself.
func skippable(err error) bool {
	return !cancelled(err)
}

func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, client.ErrContextCancelled)
}
