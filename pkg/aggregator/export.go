package aggregator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Sternrassler/rmp-client/pkg/export"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Exported lists the files written by Export.
type Exported struct {
	ReviewsPath    string
	ProfessorsPath string
}

// Export writes <Prefix>Reviews.<ext> and <Prefix>Profs.<ext> into dir, where
// Prefix is FilePrefix(SchoolName). Existing files are replaced.
func (r *ReviewsFetched) Export(ctx context.Context, exporter export.Exporter, dir string) (result *Exported, err error) {
	a := r.agg
	if len(r.Reviews) == 0 || len(r.Professors) == 0 {
		a.logger.Warn().
			Int("professors", len(r.Professors)).
			Int("reviews", len(r.Reviews)).
			Msg("Nothing to export; fetch professors and reviews first")
		return nil, ErrEmptyTables
	}

	_, span := tracer.Start(ctx, "Export")
	span.SetAttributes(
		attribute.Int("rmp.school_id", a.schoolID),
		attribute.String("rmp.format", exporter.Ext()),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	prefix := FilePrefix(r.SchoolName)
	out := &Exported{
		ReviewsPath:    filepath.Join(dir, prefix+"Reviews."+exporter.Ext()),
		ProfessorsPath: filepath.Join(dir, prefix+"Profs."+exporter.Ext()),
	}

	if err := exporter.WriteTable(out.ReviewsPath, ReviewTable(r.Reviews)); err != nil {
		return nil, fmt.Errorf("export reviews: %w", err)
	}
	a.logger.Info().Str("path", out.ReviewsPath).Int("rows", len(r.Reviews)).Msg("Review table saved")

	if err := exporter.WriteTable(out.ProfessorsPath, ProfessorTable(r.Professors)); err != nil {
		return nil, fmt.Errorf("export professors: %w", err)
	}
	a.logger.Info().Str("path", out.ProfessorsPath).Int("rows", len(r.Professors)).Msg("Professor table saved")

	return out, nil
}

// FilePrefix turns a school name into a file name prefix: every word is
// capitalized with the rest of it lowered, then spaces and path separators
// are dropped. "university of test" becomes "UniversityOfTest".
func FilePrefix(schoolName string) string {
	var b strings.Builder
	b.Grow(len(schoolName))

	prevLetter := false
	for _, r := range schoolName {
		switch {
		case unicode.IsSpace(r), r == '/', r == '\\':
			prevLetter = false
			continue
		case unicode.IsLetter(r):
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToTitle(r)
			}
			prevLetter = true
		default:
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
