package http

// StudyRef is one enriched study in a response. Title is null when the
// study has no metadata row or its title is NULL.
type StudyRef struct {
	StudyID string  `json:"study_id"`
	Title   *string `json:"title"`
}

type TermStudiesResponse struct {
	Term    string     `json:"term"`
	Count   int        `json:"count"`
	Studies []StudyRef `json:"studies"`
}

type LocationStudiesResponse struct {
	Coords  []float64  `json:"coords"`
	Count   int        `json:"count"`
	Studies []StudyRef `json:"studies"`
}

// TermDissociationResponse reports term_a − term_b. The reverse
// direction is deliberately not computed; issue a second request with
// the terms swapped.
type TermDissociationResponse struct {
	TermA   string     `json:"term_a"`
	TermB   string     `json:"term_b"`
	Count   int        `json:"count"`
	Studies []StudyRef `json:"studies"`
}

type LocationDissociationResponse struct {
	CoordsA []float64  `json:"coords_a"`
	CoordsB []float64  `json:"coords_b"`
	AMinusB []StudyRef `json:"A_minus_B"`
	BMinusA []StudyRef `json:"B_minus_A"`
}
