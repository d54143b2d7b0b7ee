package aggregator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	phaseProfessors = "professors"
	phaseReviews    = "reviews"
)

var (
	professorsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rmp_professors_fetched_total",
		Help: "Professor rows collected",
	})

	reviewsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rmp_reviews_fetched_total",
		Help: "Review rows collected",
	})

	professorsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rmp_professors_skipped_total",
		Help: "Professors skipped because their ratings could not be fetched",
	})

	pagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmp_pages_fetched_total",
			Help: "Pages fetched by phase",
		},
		[]string{"phase"},
	)
)
