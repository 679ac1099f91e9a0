package models

// AcademyView is an academy with its reputation attached when one matched.
type AcademyView struct {
	Academy
	Reputation *Reputation `json:"reputationData,omitempty"`
}

// ResultItem is one entry of a search response: either a single academy or a group of
// academies sharing one coordinate pair, represented by one of its members.
type ResultItem struct {
	AcademyView
	IsGroup      bool          `json:"isGroup,omitempty"`
	GroupCount   int           `json:"groupCount,omitempty"`
	GroupMembers []AcademyView `json:"groupMembers,omitempty"`
}

// LatLng is a WGS84 coordinate pair in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchQuery carries the filters of an academy search over a map viewport.
type SearchQuery struct {
	Keyword   string
	Course    string
	NorthEast LatLng
	SouthWest LatLng
}
