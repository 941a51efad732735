package models

// SortOrder is the ordering requested from the case-law search backend
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortDate      SortOrder = "date"
	SortCitations SortOrder = "citations"
)

// Valid reports whether the backend understands s
func (s SortOrder) Valid() bool {
	switch s {
	case SortRelevance, SortDate, SortCitations:
		return true
	}
	return false
}

// Court filter values accepted by the search backend
const (
	CourtSupreme        = "supremecourt"
	CourtHigh           = "highcourts"
	CourtTribunals      = "tribunals"
	CourtServiceMatters = "supremecourtofindiaservicematters"
)

// CaseLaw represents one judgment returned by case-law search
type CaseLaw struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Court     string `json:"court"`
	Date      string `json:"date"`
	CiteCount int    `json:"cite_count"`
	Link      string `json:"link"`
}

// CaseLawCard is a search hit prepared for display
type CaseLawCard struct {
	CaseLaw
	PlainTitle string `json:"plain_title"`
	TopResult  bool   `json:"top_result"`
}
