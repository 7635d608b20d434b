package entity

import "time"

// RequestType is derived from the goods-flow pair (origin kind, destination
// kind) and only from it. There is no generic fallback type: unrecognized
// pairs are rejected at creation.
type RequestType string

const (
	// Stock issued by a service center to one of its technicians.
	RequestTypeTechnicianIssue RequestType = "technician_issue"
	// Technician sends consignment stock back to the service center.
	RequestTypeTechnicianConsignmentReturn RequestType = "technician_consignment_return"
	// Plant/branch tops up a service center.
	RequestTypeFillUp RequestType = "fill_up"
	// Service center sends consignment stock back to the plant/branch.
	RequestTypeConsignmentReturn RequestType = "consignment_return"
)

// IsReturn reports whether the type belongs to the upward return flow.
func (t RequestType) IsReturn() bool {
	return t == RequestTypeTechnicianConsignmentReturn || t == RequestTypeConsignmentReturn
}

// DeriveRequestType computes the type from the goods-flow pair: from is the
// goods origin, to the goods destination. Returns false for unrecognized pairs.
func DeriveRequestType(from, to LocationKind) (RequestType, bool) {
	switch {
	case from == LocationServiceCenter && to == LocationTechnician:
		return RequestTypeTechnicianIssue, true
	case from == LocationTechnician && to == LocationServiceCenter:
		return RequestTypeTechnicianConsignmentReturn, true
	case from == LocationPlant && to == LocationServiceCenter:
		return RequestTypeFillUp, true
	case from == LocationServiceCenter && to == LocationPlant:
		return RequestTypeConsignmentReturn, true
	}
	return "", false
}

// RequestStatus lifecycle states. Rejected, fulfilled and cancelled are terminal.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusAllocated RequestStatus = "allocated"
	RequestStatusFulfilled RequestStatus = "fulfilled"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// RequestReason why the stock is being requested or returned.
type RequestReason string

const (
	ReasonDefect            RequestReason = "defect"
	ReasonMSL               RequestReason = "msl" // minimum-stock-level top-up
	ReasonBulk              RequestReason = "bulk"
	ReasonReplacement       RequestReason = "replacement"
	ReasonConsignmentReturn RequestReason = "consignment_return"
)

// ValidIssueReason reports whether the reason is allowed on a downward issue request.
func (r RequestReason) ValidIssueReason() bool {
	switch r {
	case ReasonDefect, ReasonMSL, ReasonBulk, ReasonReplacement:
		return true
	}
	return false
}

// ValidReturnReason reports whether the reason is allowed on an upward return.
func (r RequestReason) ValidReturnReason() bool {
	switch r {
	case ReasonConsignmentReturn, ReasonDefect:
		return true
	}
	return false
}

// ItemType classifies a returned line: unused parts travel in the good
// bucket, defective parts in the defective bucket.
type ItemType string

const (
	ItemTypeDefective ItemType = "defective"
	ItemTypeUnused    ItemType = "unused"
)

// SourceBucket returns the origin bucket a return line draws from.
func (t ItemType) SourceBucket() (Bucket, bool) {
	switch t {
	case ItemTypeDefective:
		return BucketDefective, true
	case ItemTypeUnused:
		return BucketGood, true
	}
	return "", false
}

// Request is a demand for spares to move from the goods origin (the
// destination of authority) to the goods destination (the requester), or the
// mirror-image return. Type is always DeriveRequestType(From.Kind, To.Kind).
type Request struct {
	ID     int64
	Type   RequestType
	Status RequestStatus
	Reason RequestReason

	From Location // goods origin
	To   Location // goods destination

	RaisedBy       string
	ApprovedBy     string
	ApprovedAt     *time.Time
	RejectedReason string

	Items []RequestItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RequestItem is one line of a Request. ApprovedQty is set exactly once, by
// the approval transition; nil means not yet decided, zero means the line was
// rejected while approving the rest.
type RequestItem struct {
	ID        int64
	RequestID int64
	Spare     SparePart
	Bucket    Bucket
	ItemType  ItemType // returns only; empty on issue requests

	RequestedQty int64
	ApprovedQty  *int64
}
