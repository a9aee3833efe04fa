// Package coverage holds the jurisdiction-independent workers' compensation
// coverage model and the registry that maps a jurisdiction code to the
// client able to search that state's coverage records.
package coverage

import (
	"context"
	"fmt"
	"slices"
)

// Jurisdiction is a two-letter U.S. state code, e.g. "MI".
type Jurisdiction string

// Michigan is served by the WORCS insurance coverage search.
const Michigan Jurisdiction = "MI"

// Query is a validated coverage lookup for one business in one jurisdiction.
type Query struct {
	Jurisdiction Jurisdiction
	BusinessName string
	City         string
}

// EmployerRecord is one employer matched by a registry search.
type EmployerRecord struct {
	EmployerID   int
	EmployerName string
	Address      string
	City         string
	State        string
	ZipCode      string
	OverallCount int
}

// LookupResult is a registry's answer to a Query.
type LookupResult struct {
	Success      bool
	Records      []EmployerRecord
	TotalRecords int
	CurrentPage  int
	Errors       []string
	ErrorsHTML   string
}

// Outcome is what the caller of the API learns about a Query.
type Outcome struct {
	Validated bool `json:"validated"`
}

// OutcomeOf reports a business as validated only when the registry call
// succeeded and matched at least one employer.
func OutcomeOf(result *LookupResult) Outcome {
	return Outcome{
		Validated: result != nil && result.Success && len(result.Records) > 0,
	}
}

// Lookuper searches one jurisdiction's coverage registry.
//
// Implementations make exactly one upstream attempt and return transport and
// decoding failures unchanged; interpreting the result is left to the caller.
type Lookuper interface {
	Lookup(ctx context.Context, q Query) (*LookupResult, error)
}

// LookupFunc adapts a plain function to the Lookuper interface.
type LookupFunc func(ctx context.Context, q Query) (*LookupResult, error)

// Lookup calls f(ctx, q).
func (f LookupFunc) Lookup(ctx context.Context, q Query) (*LookupResult, error) {
	return f(ctx, q)
}

// UnsupportedJurisdictionError is returned for a jurisdiction with no registered Lookuper.
type UnsupportedJurisdictionError struct {
	Jurisdiction Jurisdiction
}

func (e *UnsupportedJurisdictionError) Error() string {
	return fmt.Sprintf("%s is not yet supported.", e.Jurisdiction)
}

// Registry maps jurisdictions to their Lookuper.
//
// Registration happens during start-up; the registry is read-only once the
// server is accepting requests.
type Registry struct {
	lookupers map[Jurisdiction]Lookuper
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{lookupers: make(map[Jurisdiction]Lookuper)}
}

// Register adds or replaces the Lookuper for j.
func (r *Registry) Register(j Jurisdiction, l Lookuper) {
	r.lookupers[j] = l
}

// Lookuper returns the Lookuper for j, or *UnsupportedJurisdictionError.
func (r *Registry) Lookuper(j Jurisdiction) (Lookuper, error) {
	l, ok := r.lookupers[j]
	if !ok {
		return nil, &UnsupportedJurisdictionError{Jurisdiction: j}
	}
	return l, nil
}

// Jurisdictions lists registered codes in sorted order.
func (r *Registry) Jurisdictions() []Jurisdiction {
	out := make([]Jurisdiction, 0, len(r.lookupers))
	for j := range r.lookupers {
		out = append(out, j)
	}
	slices.Sort(out)
	return out
}

// Pinger is implemented by lookupers that can cheaply check their upstream is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
