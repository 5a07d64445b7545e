package testutil

// FixedQueryID generates the same query ID every time.
//
// Scenario runs use it so results and golden output are byte-identical
// across runs. It satisfies engine.IDGenerator.
type FixedQueryID struct {
	id string
}

// NewFixedQueryID creates a generator returning id. If id is empty,
// Generate returns "test-query-default".
func NewFixedQueryID(id string) *FixedQueryID {
	if id == "" {
		id = "test-query-default"
	}
	return &FixedQueryID{id: id}
}

// Generate returns the fixed ID.
func (g *FixedQueryID) Generate() string {
	return g.id
}
