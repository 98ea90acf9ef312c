// Package session owns the current dataset of an interactive run.
//
// Regeneration builds a complete Dataset first and then swaps it in
// atomically, so a resolve that is already running keeps reading the
// snapshot it started with.
package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spektr-org/playbook/dataset"
	"github.com/spektr-org/playbook/engine"
	"github.com/spektr-org/playbook/logx"
)

// Session holds the generator and the latest dataset.
type Session struct {
	mu      sync.Mutex // serializes generator use
	gen     *dataset.Generator
	current atomic.Pointer[dataset.Dataset]
	version atomic.Int64
}

// New returns a Session with no dataset yet.
func New(gen *dataset.Generator) *Session {
	return &Session{gen: gen}
}

// Regenerate builds a new dataset and makes it current.
func (s *Session) Regenerate(numSamples, numCols int) *dataset.Dataset {
	s.mu.Lock()
	ds := s.gen.Generate(numSamples, numCols)
	s.mu.Unlock()

	s.Replace(ds)
	return ds
}

// Replace makes ds current, for datasets loaded from elsewhere.
// A nil dataset is ignored.
func (s *Session) Replace(ds *dataset.Dataset) {
	if ds == nil {
		logx.Warnf("⚠️ Playbook: ignoring nil dataset")
		return
	}
	s.current.Store(ds)
	v := s.version.Add(1)
	logx.Infof("🔄 Playbook: dataset v%d ready (%d rows × %d columns)", v, ds.Rows(), ds.NumColumns())
}

// Current returns the current dataset, or nil before the first generation.
func (s *Session) Current() *dataset.Dataset {
	return s.current.Load()
}

// Version counts how many datasets have been made current.
func (s *Session) Version() int64 {
	return s.version.Load()
}

// Resolve resolves req against a single snapshot of the current dataset.
// Before the first generation a request with columns is rejected.
func (s *Session) Resolve(req engine.ChartRequest, opts ...engine.Option) engine.Resolution {
	return s.ResolveFiltered(req, engine.Filters{}, opts...)
}

// ResolveFiltered is Resolve over the rows matching filters.
// Filters on missing or numeric columns, or filters no row matches,
// reject the request.
func (s *Session) ResolveFiltered(req engine.ChartRequest, filters engine.Filters, opts ...engine.Option) engine.Resolution {
	if len(req.Columns) == 0 {
		return engine.Resolution{Status: engine.StatusIdle}
	}
	ds := s.current.Load()
	if ds == nil {
		return rejected(engine.RejectNoDataset, "Generate a dataset first.")
	}
	if err := filters.Validate(ds); err != nil {
		return rejected(engine.RejectInvalidFilter, err.Error())
	}
	view := engine.Filter(ds, filters)
	if view.Len() == 0 && !filters.IsEmpty() {
		return rejected(engine.RejectInvalidFilter,
			fmt.Sprintf("No rows match the filter %s.", describeFilters(filters)))
	}
	return engine.Resolve(view, req, opts...)
}

func rejected(code engine.RejectCode, reason string) engine.Resolution {
	return engine.Resolution{
		Status:    engine.StatusRejected,
		Rejection: &engine.Rejection{Code: code, Reason: reason},
	}
}

// describeFilters renders filters as "Gender=Female; Team=Lions,Wolves".
func describeFilters(filters engine.Filters) string {
	dims := make([]string, 0, len(filters.Dimensions))
	for dim := range filters.Dimensions {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	parts := make([]string, len(dims))
	for i, dim := range dims {
		parts[i] = dim + "=" + strings.Join(filters.Dimensions[dim], ",")
	}
	return strings.Join(parts, "; ")
}
