package parser

import "nyayasetu-web/models"

// Warnings reported by ParseStrict
const (
	WarnMissingAnswer     = "missing <LEGAL_ANSWER> block"
	WarnMissingCitations  = "missing <CITATIONS> block"
	WarnMissingStatutes   = "citations block has no Statutes header"
	WarnMissingPrecedents = "citations block has no Precedents header"
	WarnDroppedPrecedent  = "precedent line without a title"
)

type warnings struct {
	list []string
}

func (w *warnings) add(msg string) {
	if w == nil {
		return
	}
	w.list = append(w.list, msg)
}

// ParseStrict parses like Parse and also reports each piece of expected
// structure that was absent or had to be dropped. The parsed result is
// identical to Parse(raw)
func ParseStrict(raw string) (models.ParsedResponse, []string) {
	res, w := parse(raw, &warnings{})
	return res, w.list
}
