package model

// EngineKind selects the backend index a search query runs against.
type EngineKind string

const (
	EngineWeb  EngineKind = "web"
	EngineMaps EngineKind = "maps"
)

// SearchHit is one result item from a single page of a search query.
// Empty strings mean the provider did not return the field.
type SearchHit struct {
	Title   string     `json:"title"`
	Link    string     `json:"link"`
	Snippet string     `json:"snippet"`
	Phone   string     `json:"phone,omitempty"`
	Engine  EngineKind `json:"engine"`
}
