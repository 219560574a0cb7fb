package textparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func tubeCorpus() []TaggedToken {
	lines := []string{
		"Bakerloo", "Central", "Circle", "District", "Hammersmith & City",
		"Jubilee", "Metropolitan", "Northern", "Piccadilly", "Victoria",
		"Waterloo & City",
	}
	var corpus []TaggedToken
	for _, line := range lines {
		for _, word := range strings.Fields(line) {
			corpus = append(corpus, TaggedToken{Token: word, Tag: TagTubeLine})
		}
	}
	return corpus
}

func TestParseBusRequests(t *testing.T) {
	parser := NewParser(BusGrammar(), nil)

	testCases := []struct {
		text   string
		result Result
	}{
		{
			"15 from Limehouse Station to Poplar",
			Result{Routes: []string{"15"}, Origin: "Limehouse Station", Destination: "Poplar"},
		},
		{
			"15 Limehouse Station to Poplar",
			Result{Routes: []string{"15"}, Origin: "Limehouse Station", Destination: "Poplar"},
		},
		{
			"15 to Poplar from Limehouse Station",
			Result{Routes: []string{"15"}, Origin: "Limehouse Station", Destination: "Poplar"},
		},
		{
			"15 25 from Limehouse",
			Result{Routes: []string{"15", "25"}, Origin: "Limehouse"},
		},
		{
			"d3 from 53410 please",
			Result{Routes: []string{"D3"}, Origin: "53410"},
		},
		{
			"15",
			Result{Routes: []string{"15"}},
		},
		{"", Result{}},
		{"from Limehouse", Result{}},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.result, parser.Parse(testCase.text), "text: %q", testCase.text)
	}
}

func TestParseTubeRequests(t *testing.T) {
	parser := NewParser(TubeGrammar(), tubeCorpus())

	testCases := []struct {
		text   string
		result Result
	}{
		{
			"Victoria Line from Sloane Square Eastbound",
			Result{Routes: []string{"Victoria"}, Origin: "Sloane Square", Direction: "Eastbound"},
		},
		{
			// Any "-bound" word parses as a direction; whether it maps to a
			// compass point is the caller's problem.
			"Victoria Line from Sloane Square inbound",
			Result{Routes: []string{"Victoria"}, Origin: "Sloane Square", Direction: "Inbound"},
		},
		{
			"Hammersmith & City Line to Moorgate",
			Result{Routes: []string{"Hammersmith & City"}, Destination: "Moorgate"},
		},
		{
			"District Line from Earls Court to Edgware Road",
			Result{Routes: []string{"District"}, Origin: "Earls Court", Destination: "Edgware Road"},
		},
		{
			"Northern Line",
			Result{Routes: []string{"Northern"}},
		},
		{
			// A mid-message line word is part of the place name, not a line.
			"Central Line to White City",
			Result{Routes: []string{"Central"}, Destination: "White City"},
		},
		{"", Result{}},
		{"from Sloane Square", Result{}},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.result, parser.Parse(testCase.text), "text: %q", testCase.text)
	}
}

func TestParseDLRRequests(t *testing.T) {
	parser := NewParser(DLRGrammar(), nil)

	testCases := []struct {
		text   string
		result Result
	}{
		{
			"DLR from Bank to Lewisham",
			Result{Routes: []string{"DLR"}, Origin: "Bank", Destination: "Lewisham"},
		},
		{
			"from Poplar to Stratford",
			Result{Origin: "Poplar", Destination: "Stratford"},
		},
		{
			"Docklands Light Railway from Bank",
			Result{},
		},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.result, parser.Parse(testCase.text), "text: %q", testCase.text)
	}
}
