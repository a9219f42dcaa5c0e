package catalog

// Item is an immutable catalog entry held by the index. It mirrors the
// durable Ship record but carries only what ranking and filtering need.
type Item struct {
	ID            string
	Name          string
	Slug          string
	Manufacturer  string
	Focus         string
	Type          string
	CargoCapacity int
	CrewMin       int
	CrewMax       int
	PriceUSD      float64
	Description   string
	Vector        []float32
}

// Candidate is one scored, filtered result of a Query. Ephemeral: it is
// recomputed per query and never persisted.
type Candidate struct {
	Item    Item
	Score   float64 // cosine similarity clamped to [0,1]
	Filters Filters // the constraints that were applied
}
