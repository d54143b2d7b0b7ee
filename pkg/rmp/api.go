// Package rmp describes the two RateMyProfessors JSON endpoints used by the
// scraper: the per-school professor listing and the per-professor ratings.
package rmp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Sternrassler/rmp-client/pkg/cache"
)

const (
	// ProfessorListEndpoint lists the professors of one school.
	ProfessorListEndpoint = "/filter/professor/"

	// RatingsEndpoint lists the ratings of one professor.
	RatingsEndpoint = "/paginate/professors/ratings"
)

// Getter fetches the raw body of endpoint with query. client.Client implements it.
// A caching Getter only keeps bodies that every accept func allows.
type Getter interface {
	Get(ctx context.Context, endpoint string, query url.Values, accept ...cache.Validator) ([]byte, error)
}

// API fetches and decodes listing and ratings pages.
type API struct {
	getter Getter
}

// NewAPI wraps a Getter.
func NewAPI(getter Getter) *API {
	return &API{getter: getter}
}

// ProfessorListQuery builds the listing query: sorted by last name, all
// teachers, filtered to the school id.
func ProfessorListQuery(schoolID, page int) url.Values {
	return url.Values{
		"page":        {strconv.Itoa(page)},
		"filter":      {"teacherlastname_sort_s asc"},
		"query":       {"*:*"},
		"queryoption": {"TEACHER"},
		"queryBy":     {"schoolId"},
		"sid":         {strconv.Itoa(schoolID)},
	}
}

// RatingsQuery builds the ratings query for one professor.
func RatingsQuery(professorID int64, page int) url.Values {
	return url.Values{
		"tid":        {strconv.FormatInt(professorID, 10)},
		"filter":     {""},
		"courseCode": {""},
		"page":       {strconv.Itoa(page)},
	}
}

// ProfessorPage fetches one page of a school's professor listing.
func (a *API) ProfessorPage(ctx context.Context, schoolID, page int) (*ProfessorPage, error) {
	body, err := a.getter.Get(ctx, ProfessorListEndpoint, ProfessorListQuery(schoolID, page), validProfessorPage)
	if err != nil {
		return nil, fmt.Errorf("get professor listing (school %d, page %d): %w", schoolID, page, err)
	}

	result, err := DecodeProfessorPage(body)
	if err != nil {
		return nil, fmt.Errorf("decode professor listing (school %d, page %d): %w", schoolID, page, err)
	}
	return result, nil
}

// RatingsPage fetches one page of a professor's ratings.
func (a *API) RatingsPage(ctx context.Context, professorID int64, page int) (*RatingsPage, error) {
	body, err := a.getter.Get(ctx, RatingsEndpoint, RatingsQuery(professorID, page), validRatingsPage)
	if err != nil {
		return nil, fmt.Errorf("get ratings (professor %d, page %d): %w", professorID, page, err)
	}

	result, err := DecodeRatingsPage(body)
	if err != nil {
		return nil, fmt.Errorf("decode ratings (professor %d, page %d): %w", professorID, page, err)
	}
	return result, nil
}

func validProfessorPage(body []byte) error {
	_, err := DecodeProfessorPage(body)
	return err
}

func validRatingsPage(body []byte) error {
	_, err := DecodeRatingsPage(body)
	return err
}
