package textparser

import (
	"regexp"
	"strings"
)

// Tag classifies a single token of a request.
type Tag string

const (
	TagNone        Tag = ""
	TagRouteNumber Tag = "ROUTE_NUMBER"
	TagStopNumber  Tag = "STOP_NUMBER"
	TagFrom        Tag = "FROM"
	TagTo          Tag = "TO"
	TagLineWord    Tag = "LINE"
	TagTubeLine    Tag = "TUBE_LINE"
	TagDLRLine     Tag = "DLR_LINE_NAME"
	TagDirection   Tag = "DIRECTION"
	TagPlaceWord   Tag = "PLACE_WORD"
)

type TaggedToken struct {
	Token string
	Tag   Tag
}

type rule struct {
	pattern *regexp.Regexp
	tag     Tag
}

// Grammar holds the per-network tagging rules plus the shape of the request
// forms the parser accepts.
type Grammar struct {
	rules []rule

	// demotions re-tags a token whose tag only makes sense in a contiguous
	// run at the start of the message - a stray number in the middle of a
	// stop name is a place word, not a route.
	demotions map[Tag]Tag

	// phraseTags are the tags a place-name phrase may consume.
	phraseTags map[Tag]bool

	// rail grammars recognise a LINE_NAME nonterminal and direction words.
	rail bool
	// lineNameOptional allows rail requests with no line at all (DLR).
	lineNameOptional bool
}

// BusGrammar recognises "routes [from origin] [to destination]" requests
// such as "15 from Limehouse to Poplar" or "15 from 53410".
func BusGrammar() Grammar {
	return Grammar{
		rules: []rule{
			{regexp.MustCompile(`^[0-9]{5}$`), TagStopNumber},
			{regexp.MustCompile(`^[A-Za-z]{0,2}[0-9]{1,3}$`), TagRouteNumber},
			{regexp.MustCompile(`^(?i:from)$`), TagFrom},
			{regexp.MustCompile(`^(?i:to(wards)?)$`), TagTo},
			{regexp.MustCompile(`^(?i:please|thanks|thank|you)$`), TagNone},
			{regexp.MustCompile(`.*`), TagPlaceWord},
		},
		demotions:  map[Tag]Tag{TagRouteNumber: TagPlaceWord},
		phraseTags: map[Tag]bool{TagPlaceWord: true, TagStopNumber: true},
	}
}

func railRules() []rule {
	return []rule{
		{regexp.MustCompile(`^(?i:from)$`), TagFrom},
		{regexp.MustCompile(`^(?i:to(wards)?)$`), TagTo},
		{regexp.MustCompile(`^(?i:line)$`), TagLineWord},
		{regexp.MustCompile(`^(?i:please|thanks|thank|you)$`), TagNone},
		{regexp.MustCompile(`^(?i:dlr|docklands)$`), TagDLRLine},
		// Anything "-bound" is a direction attempt; validation of which
		// directions actually exist belongs to whoever answers the request.
		{regexp.MustCompile(`^(?i:[a-z]+bound)$`), TagDirection},
		{regexp.MustCompile(`.*`), TagPlaceWord},
	}
}

// TubeGrammar recognises "line [from origin] [to destination] [direction]"
// requests such as "Victoria Line from Sloane Square Eastbound". Line names
// themselves arrive via the tagged corpus handed to NewParser.
func TubeGrammar() Grammar {
	return Grammar{
		rules:      railRules(),
		demotions:  map[Tag]Tag{TagTubeLine: TagPlaceWord},
		phraseTags: map[Tag]bool{TagPlaceWord: true},
		rail:       true,
	}
}

// DLRGrammar is the Tube grammar with the line name entirely optional.
func DLRGrammar() Grammar {
	grammar := TubeGrammar()
	grammar.lineNameOptional = true
	return grammar
}

// Parser tags and parses request text for one network. The unigram table,
// built from pre-tagged example tokens, is consulted before the regex rules;
// unseen tokens fall back to the rules.
type Parser struct {
	grammar Grammar
	unigram map[string]Tag
}

func NewParser(grammar Grammar, corpus []TaggedToken) *Parser {
	unigram := map[string]Tag{}
	for _, example := range corpus {
		unigram[strings.ToLower(example.Token)] = example.Tag
	}
	return &Parser{grammar: grammar, unigram: unigram}
}

var tokenTrim = regexp.MustCompile(`^[.,!?;:]+|[.,!?;:]+$`)

func tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(text) {
		if token := tokenTrim.ReplaceAllString(field, ""); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// TagText tokenizes and tags the text. Tokens tagged none (politeness words)
// are dropped. Route or line tags are only valid in a contiguous run at the
// start of the message; later strays are demoted to place words.
func (p *Parser) TagText(text string) []TaggedToken {
	var tagged []TaggedToken
	for _, token := range tokenize(text) {
		tag, known := p.unigram[strings.ToLower(token)]
		if !known {
			for _, r := range p.grammar.rules {
				if r.pattern.MatchString(token) {
					tag = r.tag
					break
				}
			}
		}
		if tag == TagNone {
			continue
		}
		tagged = append(tagged, TaggedToken{Token: token, Tag: tag})
	}

	for i := 1; i < len(tagged); i++ {
		if demoted, ok := p.grammar.demotions[tagged[i].Tag]; ok && tagged[i-1].Tag != tagged[i].Tag {
			tagged[i].Tag = demoted
		}
	}

	return tagged
}
