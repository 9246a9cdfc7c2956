package dissociate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinate(t *testing.T) {
	c, err := ParseCoordinate("1.0_2.0_3.0")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{X: 1.0, Y: 2.0, Z: 3.0}, c)
}

func TestParseCoordinateIntegers(t *testing.T) {
	c, err := ParseCoordinate("-30_22_0")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{X: -30, Y: 22, Z: 0}, c)
}

func TestParseCoordinateInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"non-numeric", "a_b_c"},
		{"too few", "1_2"},
		{"too many", "1_2_3_4"},
		{"empty", ""},
		{"empty component", "1__3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCoordinate(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCoordinate)
		})
	}
}

func TestDifference(t *testing.T) {
	a := []StudyID{"1", "2", "3"}
	b := []StudyID{"2", "3"}

	assert.Equal(t, []StudyID{"1"}, Difference(a, b))
}

func TestDifferenceSelfIsEmpty(t *testing.T) {
	a := []StudyID{"1", "2", "3"}

	assert.Empty(t, Difference(a, a))
}

func TestDifferenceDeduplicates(t *testing.T) {
	a := []StudyID{"1", "1", "2", "2", "3"}
	b := []StudyID{"3"}

	assert.Equal(t, []StudyID{"1", "2"}, Difference(a, b))
}

func TestDifferencePreservesOrder(t *testing.T) {
	a := []StudyID{"9", "4", "7", "1"}
	b := []StudyID{"4"}

	assert.Equal(t, []StudyID{"9", "7", "1"}, Difference(a, b))
}

func TestSplitDirectionsAreDisjoint(t *testing.T) {
	a := []StudyID{"5", "6", "8"}
	b := []StudyID{"7", "6", "8"}

	aMinusB, bMinusA := Split(a, b)
	assert.Equal(t, []StudyID{"5"}, aMinusB)
	assert.Equal(t, []StudyID{"7"}, bMinusA)

	left := make(map[StudyID]struct{})
	for _, id := range aMinusB {
		left[id] = struct{}{}
	}
	for _, id := range bMinusA {
		_, ok := left[id]
		assert.False(t, ok, "study %s appears in both directions", id)
	}
}

func TestSplitReconstructsResolvedSet(t *testing.T) {
	a := []StudyID{"1", "2", "3"}
	b := []StudyID{"2", "3", "4"}

	aMinusB, _ := Split(a, b)

	// a − b plus the intersection gives back a.
	rebuilt := append([]StudyID{}, aMinusB...)
	inB := map[StudyID]struct{}{"2": {}, "3": {}, "4": {}}
	for _, id := range a {
		if _, ok := inB[id]; ok {
			rebuilt = append(rebuilt, id)
		}
	}
	assert.ElementsMatch(t, a, rebuilt)
}

func TestUnion(t *testing.T) {
	a := []StudyID{"1", "3"}
	b := []StudyID{"3", "2"}

	assert.Equal(t, []StudyID{"1", "3", "2"}, Union(a, b))
}

func TestUnionEmpty(t *testing.T) {
	assert.Empty(t, Union(nil, nil))
}
