// Package playbook generates synthetic sports datasets and resolves chart
// requests over them.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/playbook/dataset"
//	    "github.com/spektr-org/playbook/engine"
//	)
//
//	gen := dataset.NewGenerator(rand.NewSource(42))
//	ds := gen.Generate(200, 4)
//	res := engine.Resolve(ds, engine.ChartRequest{
//	    Kind:    engine.ChartBar,
//	    Columns: []string{"PerformanceScore", "Team"},
//	}, engine.WithCategoryLimit(20))
//
// A Resolution is idle (nothing selected), resolved (a PlotInstruction for
// the render package) or rejected (a Rejection with the reason shown to
// the user). The engine never calls any external service and never draws;
// drawing is the render package's job.
package playbook
