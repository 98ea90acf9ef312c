package engine

// ============================================================================
// TEST FIXTURE — a small in-memory ColumnSource
// ============================================================================

type fixtureColumn struct {
	name    string
	kind    Kind
	numbers []float64
	labels  []string
}

type fixtureSource struct {
	rows    int
	columns []fixtureColumn
}

func (s *fixtureSource) find(name string) (fixtureColumn, bool) {
	for _, c := range s.columns {
		if c.name == name {
			return c, true
		}
	}
	return fixtureColumn{}, false
}

func (s *fixtureSource) Len() int { return s.rows }

func (s *fixtureSource) Dimension(i int, key string) string {
	c, ok := s.find(key)
	if !ok || c.kind != Qualitative {
		return ""
	}
	return c.labels[i]
}

func (s *fixtureSource) Measure(i int, key string) float64 {
	c, ok := s.find(key)
	if !ok || c.kind != Quantitative {
		return 0
	}
	return c.numbers[i]
}

func (s *fixtureSource) keys(kind Kind) []string {
	var out []string
	for _, c := range s.columns {
		if c.kind == kind {
			out = append(out, c.name)
		}
	}
	return out
}

func (s *fixtureSource) DimensionKeys() []string { return s.keys(Qualitative) }
func (s *fixtureSource) MeasureKeys() []string   { return s.keys(Quantitative) }

func (s *fixtureSource) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.name
	}
	return names
}

func (s *fixtureSource) ColumnKind(name string) (Kind, bool) {
	c, ok := s.find(name)
	return c.kind, ok
}

// playersFixture is six rows of a small player table:
//
//	Points  Assists  Team    Gender
//	10      1        Lions   Male
//	20      2        Wolves  Female
//	10      3        Lions   Male
//	30      4        Eagles  Female
//	20      5        Wolves  Male
//	10      6        Lions   Female
func playersFixture() *fixtureSource {
	return &fixtureSource{
		rows: 6,
		columns: []fixtureColumn{
			{name: "Points", kind: Quantitative, numbers: []float64{10, 20, 10, 30, 20, 10}},
			{name: "Assists", kind: Quantitative, numbers: []float64{1, 2, 3, 4, 5, 6}},
			{name: "Team", kind: Qualitative, labels: []string{"Lions", "Wolves", "Lions", "Eagles", "Wolves", "Lions"}},
			{name: "Gender", kind: Qualitative, labels: []string{"Male", "Female", "Male", "Female", "Male", "Female"}},
		},
	}
}

// sequenceFixture has a quantitative Serial column 0..n-1 and a qualitative
// Tag column with n distinct labels.
func sequenceFixture(n int) *fixtureSource {
	serial := make([]float64, n)
	tags := make([]string, n)
	for i := range serial {
		serial[i] = float64(i)
		tags[i] = "tag-" + FormatNumber(float64(i))
	}
	return &fixtureSource{
		rows: n,
		columns: []fixtureColumn{
			{name: "Serial", kind: Quantitative, numbers: serial},
			{name: "Tag", kind: Qualitative, labels: tags},
		},
	}
}
