package gatekeeper

import "fmt"

var (
	// ErrNotFound means a required reference-data lookup matched nothing.
	// Fatal for the current reconciliation; never retried here.
	ErrNotFound = fmt.Errorf("not found")
	// ErrAmbiguous means a query expected to return exactly one record
	// returned zero or several. Treated as a data-integrity error.
	ErrAmbiguous = fmt.Errorf("ambiguous query result")
	// ErrCycle means the parent chain revisited a unit. The upstream data
	// model promises an acyclic tree, so this always indicates bad data.
	ErrCycle = fmt.Errorf("parent chain contains a cycle")
)
