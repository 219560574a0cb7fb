package bot

import (
	"strings"

	"github.com/whensmy/whensmy/pkg/places"
	"github.com/whensmy/whensmy/pkg/textparser"
)

// lineDefinition ties a TrackerNet line code to the official line name and
// the alternative spellings users actually type.
type lineDefinition struct {
	Code         string
	Name         string
	Alternatives []string
}

var lineDefinitions = []lineDefinition{
	{Code: "B", Name: "Bakerloo"},
	{Code: "C", Name: "Central"},
	{Code: "O", Name: "Circle"},
	{Code: "D", Name: "District"},
	{Code: "H", Name: "Hammersmith & City", Alternatives: []string{"Hammersmith and City", "H&C"}},
	{Code: "J", Name: "Jubilee", Alternatives: []string{"Jubillee"}},
	{Code: "M", Name: "Metropolitan", Alternatives: []string{"Met"}},
	{Code: "N", Name: "Northern"},
	{Code: "P", Name: "Piccadilly", Alternatives: []string{"Picadilly"}},
	{Code: "V", Name: "Victoria"},
	{Code: "W", Name: "Waterloo & City", Alternatives: []string{"Waterloo and City", "W&C"}},
	{Code: "DLR", Name: "DLR", Alternatives: []string{"Docklands Light Rail", "Docklands Light Railway", "Docklands"}},
}

// LineByName resolves a requested line name to its code, trying the known
// spellings first and falling back to a fuzzy match against the official
// names. Returns "" when nothing matches well enough.
func LineByName(requested string) string {
	for _, line := range lineDefinitions {
		if strings.EqualFold(requested, line.Name) {
			return line.Code
		}
		for _, alternative := range line.Alternatives {
			if strings.EqualFold(requested, alternative) {
				return line.Code
			}
		}
	}

	bestCode, bestScore := "", -1
	for _, line := range lineDefinitions {
		score := places.StringSimilarity(strings.ToUpper(requested), strings.ToUpper(line.Name))
		if score > bestScore {
			bestCode, bestScore = line.Code, score
		}
	}
	if bestScore >= places.MinimumMatchConfidence {
		return bestCode
	}
	return ""
}

// LineName returns the official name for a line code, "" if unknown.
func LineName(code string) string {
	for _, line := range lineDefinitions {
		if line.Code == code {
			return line.Name
		}
	}
	return ""
}

// DisplayLineName is the name as used in replies - "District Line", but bare
// "DLR".
func DisplayLineName(code string) string {
	name := LineName(code)
	if name == "" || name == "DLR" {
		return name
	}
	return name + " Line"
}

// lineNameCorpus pre-tags every word of every Tube line name, so the tagger
// recognises "Hammersmith & City" as a line rather than a place. The DLR's
// spellings are left out; those are caught by the tagger's own rule.
func lineNameCorpus() []textparser.TaggedToken {
	var corpus []textparser.TaggedToken
	for _, line := range lineDefinitions {
		if line.Code == "DLR" {
			continue
		}
		for _, spelling := range append([]string{line.Name}, line.Alternatives...) {
			for _, word := range strings.Fields(spelling) {
				corpus = append(corpus, textparser.TaggedToken{Token: word, Tag: textparser.TagTubeLine})
			}
		}
	}
	return corpus
}
