package models

// LawType names the code a section belongs to
type LawType string

const (
	LawIPC LawType = "IPC"
	LawBNS LawType = "BNS"
)

// Valid reports whether l is a supported code
func (l LawType) Valid() bool {
	return l == LawIPC || l == LawBNS
}

// SectionNode is one provision's cleaned text
type SectionNode struct {
	ID        string `json:"id"`
	TextClean string `json:"text_clean"`
	Heading   string `json:"heading,omitempty"`
}

// ComparisonAnalysis summarises what changed between the old and new code
type ComparisonAnalysis struct {
	Summary string   `json:"summary"`
	Changes []string `json:"changes"`
}

// Comparison represents a provision alongside its counterparts in the other code
type Comparison struct {
	Primary  SectionNode        `json:"primary"`
	Related  []SectionNode      `json:"related"`
	Analysis ComparisonAnalysis `json:"analysis"`
}
