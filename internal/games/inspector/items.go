package inspector

import (
	"math/rand"

	"github.com/vovakirdan/inspector/internal/config"
	"github.com/vovakirdan/inspector/internal/core"
)

// ItemType is the kind of document waiting in the queue.
type ItemType int

const (
	ItemApprove  ItemType = iota // must be stamped while the inspector says approve
	ItemReject                   // must be stamped while the inspector says reject
	ItemWildcard                 // bread: eat it on approve, wave it through on reject
)

// String returns the type name.
func (t ItemType) String() string {
	switch t {
	case ItemApprove:
		return "approve"
	case ItemReject:
		return "reject"
	case ItemWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// Item is one queued document. Label, Glyph and Color are display metadata
// only; the rules look at Type alone.
type Item struct {
	Type  ItemType
	Label string
	Glyph rune
	Color core.Color
}

// NewItem returns the item of the given type with its display metadata.
func NewItem(t ItemType) Item {
	switch t {
	case ItemApprove:
		return Item{Type: t, Label: "YES form", Glyph: '▤', Color: core.ColorBrightGreen}
	case ItemReject:
		return Item{Type: t, Label: "NO form", Glyph: '▥', Color: core.ColorBrightRed}
	default:
		return Item{Type: ItemWildcard, Label: "Bread", Glyph: '◍', Color: core.ColorOrange}
	}
}

// Sampler draws item types weighted by a level's spawn ratios.
type Sampler struct {
	rng    *rand.Rand
	ratios config.SpawnRatios
}

// NewSampler creates a sampler seeded for deterministic runs.
func NewSampler(seed int64, ratios config.SpawnRatios) *Sampler {
	return &Sampler{
		rng:    rand.New(rand.NewSource(seed)),
		ratios: ratios,
	}
}

// Reset reseeds the sampler.
func (s *Sampler) Reset(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// Next returns a freshly sampled item.
func (s *Sampler) Next() Item {
	total := s.ratios.Total()
	if total <= 0 {
		// Validated balances never get here; fall back to a uniform draw.
		return NewItem(ItemType(s.rng.Intn(3)))
	}

	roll := s.rng.Float64() * total
	switch {
	case roll < s.ratios.Approve:
		return NewItem(ItemApprove)
	case roll < s.ratios.Approve+s.ratios.Reject:
		return NewItem(ItemReject)
	default:
		return NewItem(ItemWildcard)
	}
}
