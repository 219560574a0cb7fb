package places

import (
	"strings"
)

// Station names that just have to be cut down by hand.
var stationNameTranslations = map[string]string{
	"High Street Kensington":   "High St Ken",
	"King's Cross St. Pancras": "Kings X St P",
	"Kensington (Olympia)":     "Olympia",
	"W'wich Arsenal":           "Woolwich A",
}

var stationNamePunctuation = []string{`\.`, `, `, `\(`, `\)`, `'`}

var stationWordAbbreviations = map[string]string{
	"Bridge":    "Br",
	"Broadway":  "Bdwy",
	"Central":   "Ctrl",
	"Court":     "Ct",
	"Cross":     "X",
	"Crescent":  "Cresc",
	"East":      "E",
	"Gardens":   "Gdns",
	"Green":     "Grn",
	"Heathway":  "Hthwy",
	"Junction":  "Jct",
	"Market":    "Mkt",
	"North":     "N",
	"Park":      "Pk",
	"Road":      "Rd",
	"South":     "S",
	"Square":    "Sq",
	"Street":    "St",
	"Terminal":  "T",
	"Terminals": "T",
	"West":      "W",
}

// AbbreviatedName shortens the station's name so departure boards fit within
// a message. Applying it to an already-abbreviated name changes nothing.
func (s *Station) AbbreviatedName() string {
	return AbbreviateStationName(s.Name)
}

// AbbreviateStationName shortens any station name: hand-authored
// translations first, then punctuation, then word-level abbreviations, and
// finally names containing "&" keep only the initial of the following word
// ("Elephant & Castle" becomes "Elephant & C").
func AbbreviateStationName(name string) string {
	if translation, ok := stationNameTranslations[name]; ok {
		name = translation
	}

	name = CleanupName(name, stationNamePunctuation)

	words := strings.Split(name, " ")
	for i, word := range words {
		if abbreviation, ok := stationWordAbbreviations[word]; ok {
			words[i] = abbreviation
		}
	}
	name = strings.Join(words, " ")

	if index := strings.Index(name, "&"); index > -1 {
		rest := strings.Fields(name[index+1:])
		if len(rest) > 0 {
			name = name[:index+1] + " " + string([]rune(rest[0])[0])
		}
	}
	return name
}
