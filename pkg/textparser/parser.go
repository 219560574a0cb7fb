package textparser

import "strings"

// Result is the outcome of parsing one request. Unfilled fields stay zero;
// a request that matches no grammar form returns the zero Result.
type Result struct {
	Routes      []string
	Origin      string
	Destination string
	Direction   string
}

func (r Result) IsZero() bool {
	return len(r.Routes) == 0 && r.Origin == "" && r.Destination == "" && r.Direction == ""
}

type cursor struct {
	tokens []TaggedToken
	pos    int
}

func (c *cursor) done() bool {
	return c.pos >= len(c.tokens)
}

func (c *cursor) peek() Tag {
	if c.done() {
		return TagNone
	}
	return c.tokens[c.pos].Tag
}

func (c *cursor) take() TaggedToken {
	token := c.tokens[c.pos]
	c.pos++
	return token
}

// Parse tags the text and tries the grammar's request forms in order:
// routes/line followed by optional origin then optional destination, and
// the inverted form with the destination phrase before the origin phrase.
// The first form that consumes every token wins.
func (p *Parser) Parse(text string) Result {
	tagged := p.TagText(text)
	if len(tagged) == 0 {
		return Result{}
	}

	if result, ok := p.parseForm(tagged, false); ok {
		return result
	}
	if result, ok := p.parseForm(tagged, true); ok {
		return result
	}
	return Result{}
}

func (p *Parser) parseForm(tagged []TaggedToken, destinationFirst bool) (Result, bool) {
	c := &cursor{tokens: tagged}
	var result Result

	if p.grammar.rail {
		line, ok := p.parseLineName(c)
		if !ok && !p.grammar.lineNameOptional {
			return Result{}, false
		}
		if ok {
			result.Routes = []string{line}
		}
	} else {
		routes := p.parseRoutes(c)
		if len(routes) == 0 {
			return Result{}, false
		}
		result.Routes = routes
	}

	if destinationFirst {
		result.Destination = p.parseDestination(c)
		if result.Destination == "" {
			return Result{}, false
		}
		result.Origin = p.parseOrigin(c)
		if result.Origin == "" {
			return Result{}, false
		}
	} else {
		result.Origin = p.parseOrigin(c)
		result.Destination = p.parseDestination(c)
	}

	if p.grammar.rail && c.peek() == TagDirection {
		word := strings.ToLower(c.take().Token)
		result.Direction = strings.ToUpper(word[:1]) + word[1:]
	}

	if !c.done() {
		return Result{}, false
	}
	return result, true
}

func (p *Parser) parseRoutes(c *cursor) []string {
	var routes []string
	for c.peek() == TagRouteNumber {
		routes = append(routes, strings.ToUpper(c.take().Token))
	}
	return routes
}

// parseLineName accepts either the single-token DLR name or a run of line
// words optionally followed by the word "Line" itself.
func (p *Parser) parseLineName(c *cursor) (string, bool) {
	if c.peek() == TagDLRLine {
		c.take()
		if c.peek() == TagLineWord {
			c.take()
		}
		return "DLR", true
	}

	var words []string
	for c.peek() == TagTubeLine {
		words = append(words, c.take().Token)
	}
	if len(words) == 0 {
		return "", false
	}
	if c.peek() == TagLineWord {
		c.take()
	}
	return strings.Join(words, " "), true
}

// parseOrigin accepts an optional "from" keyword followed by a place phrase.
func (p *Parser) parseOrigin(c *cursor) string {
	start := c.pos
	if c.peek() == TagFrom {
		c.take()
	}
	phrase := p.parsePhrase(c)
	if phrase == "" {
		c.pos = start
	}
	return phrase
}

// parseDestination requires the "to" keyword.
func (p *Parser) parseDestination(c *cursor) string {
	if c.peek() != TagTo {
		return ""
	}
	start := c.pos
	c.take()
	phrase := p.parsePhrase(c)
	if phrase == "" {
		c.pos = start
	}
	return phrase
}

func (p *Parser) parsePhrase(c *cursor) string {
	var words []string
	for p.grammar.phraseTags[c.peek()] {
		words = append(words, c.take().Token)
	}
	return strings.Join(words, " ")
}
