package entity

// SparePart is a reference into the external spares catalog. This subsystem
// never creates or mutates catalog entries; the id is trusted as supplied and
// the code is carried along for traceability on downstream documents.
type SparePart struct {
	ID   int64
	Code string
}
