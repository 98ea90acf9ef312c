package dataset

import (
	"math/rand"

	"github.com/spektr-org/playbook/logx"
)

// Generator builds synthetic datasets from a catalog and an injected random
// source. It is not safe for concurrent use.
type Generator struct {
	rng     *rand.Rand
	catalog Catalog
}

// Option configures a Generator.
type Option func(*Generator)

// WithCatalog replaces the built-in catalog.
func WithCatalog(c Catalog) Option {
	return func(g *Generator) {
		g.catalog = c
	}
}

// NewGenerator returns a Generator drawing from src. Pass a seeded
// rand.NewSource for reproducible output.
func NewGenerator(src rand.Source, opts ...Option) *Generator {
	g := &Generator{
		rng:     rand.New(src),
		catalog: DefaultCatalog(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Catalog returns the catalog the generator samples from.
func (g *Generator) Catalog() Catalog { return g.catalog }

// Generate builds a dataset of numSamples rows and
// min(numCols, catalog size) distinct columns. Columns are sampled without
// replacement and appear in sampling order, so equal inputs give different
// column orders across calls. Negative inputs are treated as zero.
func (g *Generator) Generate(numSamples, numCols int) *Dataset {
	if numSamples < 0 {
		numSamples = 0
	}
	if numCols < 0 {
		numCols = 0
	}
	k := min(numCols, g.catalog.Len())

	order := g.rng.Perm(g.catalog.Len())[:k]
	columns := make([]Column, 0, k)
	for _, idx := range order {
		columns = append(columns, fill(g.rng, g.catalog.specs[idx], numSamples))
	}

	// Names are unique by catalog construction and lengths equal by fill.
	ds, err := build(numSamples, columns)
	if err != nil {
		panic("dataset: generator produced an invalid dataset: " + err.Error())
	}

	logx.Debugf("🎲 Playbook: generated %d rows × %d columns %v", numSamples, k, ds.ColumnNames())
	return ds
}
