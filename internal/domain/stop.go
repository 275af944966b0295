package domain

// StopKind distinguishes restaurant pickups from customer dropoffs.
type StopKind string

const (
	StopPickup  StopKind = "pickup"
	StopDropoff StopKind = "dropoff"
)

// Stop is a coordinate plus caller-defined identity. Route sequencing reads
// only the coordinate; the rest of the payload passes through untouched.
type Stop struct {
	Coordinate
	ID   string
	Name string
	Kind StopKind
}
