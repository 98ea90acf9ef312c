package dataset

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/spektr-org/playbook/engine"
)

// Variant is the closed set of value generators a catalog column can use.
// The unexported method seals the set: fill switches over every variant.
type Variant interface {
	Kind() engine.Kind
	sealed()
}

// IntRange draws integers uniformly from [Min, Max).
type IntRange struct {
	Min, Max int
}

// FloatRange draws floats uniformly from [Min, Max), rounded to Decimals.
type FloatRange struct {
	Min, Max float64
	Decimals int
}

// Choice draws one of Options uniformly.
type Choice struct {
	Options []string
}

// Flag draws true or false with equal probability.
type Flag struct{}

// ScoreTerm is one weighted integer draw of a Score.
type ScoreTerm struct {
	Source IntRange
	Weight float64
}

// Score is a derived quantity: the weighted sum of freshly drawn terms plus
// uniform noise, rounded half-to-even to an integer. It never reads other
// columns.
type Score struct {
	Terms []ScoreTerm
	Noise FloatRange
}

func (IntRange) Kind() engine.Kind   { return engine.Quantitative }
func (FloatRange) Kind() engine.Kind { return engine.Quantitative }
func (Choice) Kind() engine.Kind     { return engine.Qualitative }
func (Flag) Kind() engine.Kind       { return engine.Qualitative }
func (Score) Kind() engine.Kind      { return engine.Quantitative }

func (IntRange) sealed()   {}
func (FloatRange) sealed() {}
func (Choice) sealed()     {}
func (Flag) sealed()       {}
func (Score) sealed()      {}

func (r IntRange) draw(rng *rand.Rand) float64 {
	return float64(r.Min + rng.Intn(r.Max-r.Min))
}

func (r FloatRange) draw(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.RoundToEven(v*p) / p
}

// decimals is the display precision of a quantitative variant.
func decimals(v Variant) int {
	if f, ok := v.(FloatRange); ok {
		return f.Decimals
	}
	return 0
}

// fill produces n values for spec, drawing from rng.
func fill(rng *rand.Rand, spec ColumnSpec, n int) Column {
	col := Column{
		Name:     spec.Name,
		Kind:     spec.Variant.Kind(),
		Unit:     spec.Unit,
		Decimals: decimals(spec.Variant),
	}

	switch v := spec.Variant.(type) {
	case IntRange:
		col.Numbers = make([]float64, n)
		for i := range col.Numbers {
			col.Numbers[i] = v.draw(rng)
		}

	case FloatRange:
		col.Numbers = make([]float64, n)
		for i := range col.Numbers {
			col.Numbers[i] = roundTo(v.draw(rng), v.Decimals)
		}

	case Choice:
		col.Labels = make([]string, n)
		for i := range col.Labels {
			col.Labels[i] = v.Options[rng.Intn(len(v.Options))]
		}

	case Flag:
		col.Labels = make([]string, n)
		for i := range col.Labels {
			col.Labels[i] = strconv.FormatBool(rng.Intn(2) == 0)
		}

	case Score:
		// Each term is drawn for the whole column before the next one.
		sums := make([]float64, n)
		for _, term := range v.Terms {
			for i := range sums {
				sums[i] += term.Source.draw(rng) * term.Weight
			}
		}
		for i := range sums {
			sums[i] = roundTo(sums[i]+v.Noise.draw(rng), 0)
		}
		col.Numbers = sums

	default:
		panic("dataset: unhandled column variant " + spec.Name)
	}
	return col
}
