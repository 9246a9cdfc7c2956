// Package dissociate holds the set algebra behind dissociation queries:
// which studies are associated with one key but not another.
package dissociate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StudyID identifies one study. The backing schema may store it as an
// integer or as text; the store casts it to text at the boundary so the
// engine treats it as opaque.
type StudyID = string

// ErrInvalidCoordinate is returned for coordinate strings that are not
// three underscore-separated numbers.
var ErrInvalidCoordinate = errors.New("invalid coordinate format")

// Coordinate is a 3D brain coordinate. Matching is exact float equality
// on all three axes, no spatial tolerance.
type Coordinate struct {
	X float64
	Y float64
	Z float64
}

// ParseCoordinate parses "x_y_z" into a Coordinate. Wrong arity or a
// non-numeric component fails with ErrInvalidCoordinate before any store
// access happens.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("%w: expected 3 components, got %d", ErrInvalidCoordinate, len(parts))
	}

	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Coordinate{}, fmt.Errorf("%w: %q is not a number", ErrInvalidCoordinate, p)
		}
		vals[i] = v
	}

	return Coordinate{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// Slice returns the coordinate as [x, y, z] for response payloads.
func (c Coordinate) Slice() []float64 {
	return []float64{c.X, c.Y, c.Z}
}

// Difference returns a − b: every study in a that is not in b,
// deduplicated, preserving a's order.
func Difference(a, b []StudyID) []StudyID {
	exclude := make(map[StudyID]struct{}, len(b))
	for _, id := range b {
		exclude[id] = struct{}{}
	}

	out := make([]StudyID, 0, len(a))
	seen := make(map[StudyID]struct{}, len(a))
	for _, id := range a {
		if _, ok := exclude[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Split returns both directions of the dissociation: a − b and b − a.
// Coordinate mode uses both; term mode deliberately reports only a − b,
// matching the observed behavior of the service it replaces.
func Split(a, b []StudyID) (aMinusB, bMinusA []StudyID) {
	return Difference(a, b), Difference(b, a)
}

// Union merges the two slices into one deduplicated id list, preserving
// first-seen order. Used to batch the metadata lookup across both
// directions of a dissociation.
func Union(a, b []StudyID) []StudyID {
	out := make([]StudyID, 0, len(a)+len(b))
	seen := make(map[StudyID]struct{}, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
