// Package fmi reads and writes the line-oriented FMI ASCII graph
// format described in spec §6: header lines declaring edge-metric/
// node/edge counts, then node records, then edge records, all
// whitespace-separated with `#`-prefixed comment lines skipped.
// Grounded on original_source/src/parsing/fmi.rs (reader) and
// original_source/src/io/writing/network/graph/fmi.rs (writer).
package fmi

import "errors"

var (
	// ErrMalformedHeader is returned when the leading count lines
	// (edge-metric-count, node-count, edge-count) cannot be found.
	ErrMalformedHeader = errors.New("fmi: malformed header (expected 3 counts)")

	// ErrMalformedNode is returned when a node record has fewer than
	// 3 whitespace-separated fields (id, lat, lon) or they don't parse.
	ErrMalformedNode = errors.New("fmi: malformed node record")

	// ErrMalformedEdge is returned when an edge record doesn't carry
	// enough fields for the configured column layout.
	ErrMalformedEdge = errors.New("fmi: malformed edge record")

	// ErrShortcutColumnOnRead is returned when a parsing config names a
	// shortcut_edge_idx column: FMI input feeds graph.Builder, which
	// only ever produces original (non-shortcut) edges, so a shortcut
	// column has nothing to read into. Re-importing a contracted graph
	// should use the binary graph format instead, which round-trips
	// FwdShortcutA/B directly.
	ErrShortcutColumnOnRead = errors.New("fmi: shortcut_edge_idx column not supported when reading")

	// ErrUnresolvedEndpoint is returned when an edge record's column
	// layout never supplies both a src_id and a dst_id column.
	ErrUnresolvedEndpoint = errors.New("fmi: edge record missing src_id or dst_id column")
)

// missingValue is the FMI text sentinel for an unprovided metric.
const missingValue = "_"
