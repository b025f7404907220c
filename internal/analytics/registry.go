// Package analytics implements the legislative analyzers. Each analyzer pulls a
// snapshot from a record source, derives per-record metrics and aggregates them into
// an immutable report.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yx-aesthete/sejm-info/internal/domain"
	"github.com/yx-aesthete/sejm-info/internal/ports"
)

// ErrUnknownAnalyzer is returned when resolving an unregistered analyzer.
var ErrUnknownAnalyzer = errors.New("unknown analyzer")

// Analyzer computes one report from the records it fetches.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, src ports.RecordSource, now time.Time) (domain.Report, error)
}

// Supplementary is implemented by analyzers whose failure must not fail a batch
// run of the other analyzers.
type Supplementary interface {
	Supplementary() bool
}

// IsSupplementary reports whether a is marked supplementary.
func IsSupplementary(a Analyzer) bool {
	s, ok := a.(Supplementary)
	return ok && s.Supplementary()
}

// Registry keeps analyzers by name in registration order.
type Registry struct {
	analyzers map[string]Analyzer
	order     []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{analyzers: map[string]Analyzer{}}
}

// DefaultRegistry registers every analyzer of this package.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(LawReferences{})
	r.Register(ProcessDynamics{})
	r.Register(VotingPatterns{})
	r.Register(SuccessFactors{})
	r.Register(PrintReferences{})
	return r
}

// Register adds or replaces an analyzer implementation.
func (r *Registry) Register(a Analyzer) {
	if r.analyzers == nil {
		r.analyzers = map[string]Analyzer{}
	}
	if _, ok := r.analyzers[a.Name()]; !ok {
		r.order = append(r.order, a.Name())
	}
	r.analyzers[a.Name()] = a
}

// Resolve returns an analyzer by name.
func (r *Registry) Resolve(name string) (Analyzer, error) {
	if a, ok := r.analyzers[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAnalyzer, name)
}

// Names lists registered analyzers in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
