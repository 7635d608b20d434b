package entity

import "fmt"

// LocationKind identifies the kind of endpoint in the transfer graph.
// The ledger key always carries the kind next to the numeric id: ids of
// different kinds overlap and must never be compared on their own.
type LocationKind string

const (
	LocationPlant         LocationKind = "plant"
	LocationServiceCenter LocationKind = "service_center"
	LocationTechnician    LocationKind = "technician"
	LocationCustomer      LocationKind = "customer"
)

// ParseLocationKind maps a string to a LocationKind.
func ParseLocationKind(s string) (LocationKind, bool) {
	switch LocationKind(s) {
	case LocationPlant, LocationServiceCenter, LocationTechnician, LocationCustomer:
		return LocationKind(s), true
	}
	return "", false
}

// Location is an endpoint of the spares transfer graph. Locations are
// referenced, never created or destroyed, by this subsystem.
type Location struct {
	Kind LocationKind
	ID   int64
}

// Valid reports whether the location has a recognized kind and a positive id.
func (l Location) Valid() bool {
	_, ok := ParseLocationKind(string(l.Kind))
	return ok && l.ID > 0
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.Kind, l.ID)
}
