package nodes

import "github.com/sebtreedb/sebtree/base"

const (
	b   = 1
	kib = 1024 * b
)

// Config carries the per-tree constants a Node needs beyond the K/V
// encoders themselves: the size thresholds that decide inline vs.
// out-of-line storage, the encoders version new pages are stamped with,
// and whether deletes on this tree tombstone rather than physically
// remove.
type Config struct {
	// InlineKeysSizeThreshold is the largest maximum key encoder size
	// that is still stored inline in the slot rather than in the data
	// heap.
	InlineKeysSizeThreshold int

	// InlineValuesSizeThreshold is the equivalent threshold for leaf
	// values.
	InlineValuesSizeThreshold int

	// EncodersVersion is stamped into new pages' flags field and must
	// match the version the registry's providers were built for.
	EncodersVersion base.EncodersVersion

	// TombstoneDelete selects tombstone-style deletion on leaves: a
	// delete marks the record dead instead of removing its slot.
	TombstoneDelete bool
}

// DefaultConfig returns thresholds generous enough that typical
// fixed-width keys (integers, short strings) are always inlined, with
// tombstone deletion off and encoders version 0.
func DefaultConfig() Config {
	return Config{
		InlineKeysSizeThreshold:   1 * kib,
		InlineValuesSizeThreshold: 1 * kib,
		EncodersVersion:           0,
		TombstoneDelete:           false,
	}
}
