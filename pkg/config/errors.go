// Package config decodes the YAML surfaces that configure a run:
// parsing (map file + vehicle category + metric columns), routing
// (alphas/tolerances/CH toggle), and balancing (iteration count,
// workload metric, seed, results directory).
package config

import "errors"

var (
	// ErrUnsupportedExt is returned when a config path's extension isn't
	// one of the formats this package decodes (only "yaml"/"yml").
	ErrUnsupportedExt = errors.New("config: unsupported file extension")

	// ErrUnknownMetricID is returned when a routing config references a
	// metric id that parsing-config's edges.metrics never declared.
	ErrUnknownMetricID = errors.New("config: unknown metric id")

	// ErrDuplicateMetricID is returned when edges.metrics declares the
	// same non-ignored id twice.
	ErrDuplicateMetricID = errors.New("config: duplicate metric id")

	// ErrMissingDistanceColumn is returned when a duration column is
	// declared is-provided=false (needs calc-ruling) but no distance
	// column exists to derive it from.
	ErrMissingDistanceColumn = errors.New("config: duration calc-rule needs a distance column")

	// ErrResultsDirExists is returned by the balancer CLI contract: the
	// results directory must not pre-exist.
	ErrResultsDirExists = errors.New("config: results directory already exists")
)
