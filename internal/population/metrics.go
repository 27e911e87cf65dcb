package population

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mapsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "population_maps_rendered_total",
		Help: "Choropleth maps rendered, by year.",
	}, []string{"year"})

	uploadsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "population_uploads_rejected_total",
		Help: "CSV uploads that could not be turned into a map, by reason.",
	}, []string{"reason"})
)

// ObserveRendered counts a successfully rendered map.
func ObserveRendered(year string) {
	mapsRendered.WithLabelValues(year).Inc()
}

// ObserveRejected counts a failed upload under a coarse reason label.
func ObserveRejected(err error) {
	uploadsRejected.WithLabelValues(Reason(err)).Inc()
}

// Reason maps an upload error onto a bounded label value.
func Reason(err error) string {
	var cellErr *CellError
	switch {
	case errors.As(err, &cellErr):
		return "invalid_cell"
	case errors.Is(err, ErrNonFinite):
		return "non_finite"
	case errors.Is(err, ErrEmptyDataset):
		return "empty"
	case errors.Is(err, ErrMissingCountry):
		return "missing_country"
	case errors.Is(err, ErrMissingYear):
		return "missing_year"
	case errors.Is(err, ErrUnknownYear):
		return "unknown_year"
	case errors.Is(err, ErrNoEntries):
		return "no_entries"
	default:
		return "other"
	}
}
