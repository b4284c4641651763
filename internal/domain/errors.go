package domain

import "errors"

// The engine surfaces exactly two failure kinds to its callers. Both are
// terminal for the invocation; there is no automatic retry.
var (
	// ErrDataFetch marks an upstream seismic source as unreachable,
	// errored, or returning malformed data.
	ErrDataFetch = errors.New("seismic data fetch failed")

	// ErrSummarization marks the summarization endpoint as unreachable or
	// errored.
	ErrSummarization = errors.New("summarization failed")
)
