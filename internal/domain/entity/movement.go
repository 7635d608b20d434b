package entity

import "time"

// MovementStatus lifecycle of a physical transfer. Received and cancelled are terminal.
type MovementStatus string

const (
	MovementStatusPending   MovementStatus = "pending"
	MovementStatusInTransit MovementStatus = "in_transit"
	MovementStatusReceived  MovementStatus = "received"
	MovementStatusCancelled MovementStatus = "cancelled"
)

// ReferenceType links a movement back to its originating workflow document.
type ReferenceType string

const (
	ReferenceRequest ReferenceType = "request"
	ReferenceReturn  ReferenceType = "return"
)

// Reference identifies the request (or return) a movement fulfils.
type Reference struct {
	Type ReferenceType
	ID   int64
}

// ReceiptCondition is judged by the receiving side per line. It picks the
// destination bucket regardless of the origin bucket: a good part received
// damaged lands in the defective bucket.
type ReceiptCondition string

const (
	ConditionGood      ReceiptCondition = "good"
	ConditionDamaged   ReceiptCondition = "damaged"
	ConditionDefective ReceiptCondition = "defective"
)

// ParseReceiptCondition maps a string to a ReceiptCondition.
func ParseReceiptCondition(s string) (ReceiptCondition, bool) {
	switch ReceiptCondition(s) {
	case ConditionGood, ConditionDamaged, ConditionDefective:
		return ReceiptCondition(s), true
	}
	return "", false
}

// DestinationBucket maps the receipt condition to the bucket the stock lands in.
func (c ReceiptCondition) DestinationBucket() Bucket {
	if c == ConditionGood {
		return BucketGood
	}
	return BucketDefective
}

// StockMovement is one physical transfer event between two locations.
// Creation has no ledger effect; balances on both ends change only when the
// movement is marked received, against the received quantities.
type StockMovement struct {
	ID      int64
	GroupID string // uuid shared by the ledger writes of one receipt

	From Location
	To   Location

	Reference Reference
	Status    MovementStatus
	TotalQty  int64

	// Stamped at receipt for downstream document traceability.
	DocumentNo     string
	OverrideReason string

	Lines []MovementLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineSum adds up the planned line quantities. Must equal TotalQty at creation.
func (m *StockMovement) LineSum() int64 {
	var sum int64
	for _, l := range m.Lines {
		sum += l.Qty
	}
	return sum
}

// MovementLine is one (spare, qty, bucket) entry of a movement, optionally
// tied to a physical carton. Receipt fields stay nil/empty until the
// destination confirms.
type MovementLine struct {
	ID         int64
	MovementID int64
	Spare      SparePart
	Bucket     Bucket // origin bucket the stock leaves from
	Qty        int64
	CartonNo   string

	ReceivedQty *int64
	Condition   ReceiptCondition
}
