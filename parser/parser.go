// Package parser turns the research agent's tagged reply into structured fields.
//
// The agent answers in the form
//
//	<LEGAL_ANSWER>
//	...markdown prose...
//	</LEGAL_ANSWER>
//	<CITATIONS>
//	[Statutes]
//	- Bharatiya Nyaya Sanhita, Section 303
//	[Precedents]
//	- *Case Title* (2023) | [Read Judgment](https://indiankanoon.org/doc/123/)
//	</CITATIONS>
//
// Parsing never fails: anything missing degrades to the raw text as the
// answer and empty citation lists
package parser

import (
	"regexp"
	"strings"

	"nyayasetu-web/models"
)

var (
	answerBlock    = regexp.MustCompile(`(?s)<LEGAL_ANSWER>(.*?)</LEGAL_ANSWER>`)
	citationsBlock = regexp.MustCompile(`(?s)<CITATIONS>(.*?)</CITATIONS>`)

	statutesHeader   = regexp.MustCompile(`\[Statutes\]|\*\*Statutes\*\*|### Statutes`)
	precedentsHeader = regexp.MustCompile(`\[Precedents\]|\*\*Precedents\*\*|### Precedents`)

	judgmentLink = regexp.MustCompile(`\[Read Judgment\]\(([^)]*)\)`)
	yearInParens = regexp.MustCompile(`\((\d{4})\)`)
)

// Parse extracts the answer, statutes and precedents from raw
func Parse(raw string) models.ParsedResponse {
	res, _ := parse(raw, nil)
	return res
}

func parse(raw string, w *warnings) (models.ParsedResponse, *warnings) {
	res := models.ParsedResponse{
		LegalAnswer: raw,
		Statutes:    []string{},
		Precedents:  []models.Precedent{},
	}

	if m := answerBlock.FindStringSubmatch(raw); m != nil {
		res.LegalAnswer = strings.TrimSpace(m[1])
	} else {
		w.add(WarnMissingAnswer)
	}

	var citations string
	if m := citationsBlock.FindStringSubmatch(raw); m != nil {
		citations = strings.TrimSpace(m[1])
	} else {
		w.add(WarnMissingCitations)
	}
	if citations == "" {
		return res, w
	}

	if section, ok := statutesSection(citations); ok {
		res.Statutes = listItems(section)
	} else {
		w.add(WarnMissingStatutes)
	}

	if section, ok := precedentsSection(citations); ok {
		for _, item := range listItems(section) {
			p, ok := parsePrecedent(item)
			if !ok {
				w.add(WarnDroppedPrecedent + ": " + item)
				continue
			}
			res.Precedents = append(res.Precedents, p)
		}
	} else {
		w.add(WarnMissingPrecedents)
	}

	return res, w
}

// statutesSection returns the text after the statutes header up to the next
// precedents header, or to the end of the block
func statutesSection(citations string) (string, bool) {
	loc := statutesHeader.FindStringIndex(citations)
	if loc == nil {
		return "", false
	}
	rest := citations[loc[1]:]
	if end := precedentsHeader.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}
	return rest, true
}

// precedentsSection returns everything after the precedents header
func precedentsSection(citations string) (string, bool) {
	loc := precedentsHeader.FindStringIndex(citations)
	if loc == nil {
		return "", false
	}
	return citations[loc[1]:], true
}

// listItems keeps the "-" lines of section, marker and padding removed
func listItems(section string) []string {
	items := []string{}
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		items = append(items, strings.TrimSpace(strings.TrimPrefix(line, "-")))
	}
	return items
}

func parsePrecedent(item string) (models.Precedent, bool) {
	open := strings.Index(item, "(")
	if open < 0 {
		return models.Precedent{}, false
	}
	title := strings.TrimSpace(strings.ReplaceAll(item[:open], "*", ""))
	if title == "" {
		return models.Precedent{}, false
	}

	p := models.Precedent{Title: title, Date: models.NoDate}
	if m := judgmentLink.FindStringSubmatch(item); m != nil {
		p.Link = strings.TrimSpace(m[1])
	}
	if m := yearInParens.FindStringSubmatch(item); m != nil {
		p.Date = m[1]
	}
	return p, true
}
