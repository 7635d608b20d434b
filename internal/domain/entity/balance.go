package entity

import "time"

// Bucket splits a balance into usable and defective stock.
type Bucket string

const (
	BucketGood      Bucket = "good"
	BucketDefective Bucket = "defective"
)

// ParseBucket maps a string to a Bucket.
func ParseBucket(s string) (Bucket, bool) {
	switch Bucket(s) {
	case BucketGood, BucketDefective:
		return Bucket(s), true
	}
	return "", false
}

// InventoryBalance is the stock of one spare at one location, keyed by the
// full (spare, location kind, location id) tuple. Created lazily on first
// movement into a location; zeroed, never deleted. Both counters stay >= 0
// and each bucket's reservation never exceeds its counter.
type InventoryBalance struct {
	SpareID  int64
	Location Location

	GoodQty      int64
	DefectiveQty int64

	// Quantities earmarked by approved-but-unreceived requests. Reserved
	// stock still counts in the bucket totals until physical receipt.
	ReservedGood      int64
	ReservedDefective int64

	UpdatedAt time.Time
}

// Qty returns the counter for the given bucket.
func (b *InventoryBalance) Qty(bucket Bucket) int64 {
	if bucket == BucketDefective {
		return b.DefectiveQty
	}
	return b.GoodQty
}

// Reserved returns the reserved quantity for the given bucket.
func (b *InventoryBalance) Reserved(bucket Bucket) int64 {
	if bucket == BucketDefective {
		return b.ReservedDefective
	}
	return b.ReservedGood
}

// Available returns the quantity not yet earmarked for an approved request.
func (b *InventoryBalance) Available(bucket Bucket) int64 {
	return b.Qty(bucket) - b.Reserved(bucket)
}

// Add applies a delta to the given bucket. The caller validates the result.
func (b *InventoryBalance) Add(bucket Bucket, delta int64) {
	if bucket == BucketDefective {
		b.DefectiveQty += delta
		return
	}
	b.GoodQty += delta
}

// AddReserved applies a delta to the given bucket's reservation.
func (b *InventoryBalance) AddReserved(bucket Bucket, delta int64) {
	if bucket == BucketDefective {
		b.ReservedDefective += delta
		return
	}
	b.ReservedGood += delta
}
