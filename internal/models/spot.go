package models

const FilterAll = "all"

var SpotTypes = []string{"rooftop", "industrial", "parking", "nature", "tunnel"}

// Spot is a catalog entry. The catalog is read-only; user-submitted spots
// live in the session only.
type Spot struct {
	ID               string  `json:"id"`
	Name             string  `json:"name" validate:"required|maxLen:120"`
	City             string  `json:"city"`
	Type             string  `json:"type" validate:"required|in:rooftop,industrial,parking,nature,tunnel"`
	BestTime         string  `json:"bestTime"`
	RiskLevel        string  `json:"riskLevel" validate:"in:low,medium,high"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Thumbnail        string  `json:"thumbnail"`
	ShortDescription string  `json:"shortDescription"`
	Notes            string  `json:"notes,omitempty"`
}

func (s Spot) ValidCoordinates() bool {
	return s.Lat >= -90 && s.Lat <= 90 && s.Lng >= -180 && s.Lng <= 180
}
