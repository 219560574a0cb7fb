package bot

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/whensmy/whensmy/pkg/config"
	"github.com/whensmy/whensmy/pkg/departures"
	"github.com/whensmy/whensmy/pkg/fetcher"
	"github.com/whensmy/whensmy/pkg/gazetteer"
	"github.com/whensmy/whensmy/pkg/geo"
	"github.com/whensmy/whensmy/pkg/places"
	"github.com/whensmy/whensmy/pkg/textparser"
)

const (
	NetworkBus  = "bus"
	NetworkTube = "tube"
	NetworkDLR  = "dlr"
)

// FeedProvider supplies the live departure boards. The TfL client satisfies
// it; tests swap in a canned one.
type FeedProvider interface {
	BusDepartures(ctx context.Context, stop *places.StopPoint, route string, now time.Time) ([]departures.Departure, error)
	TubeDepartures(ctx context.Context, station *places.Station, lineCode string, now time.Time) (*departures.Collection, error)
	DLRDepartures(ctx context.Context, station *places.Station, now time.Time) (*departures.Collection, error)
}

// Dependencies are the lookups and feeds a bot needs to answer requests.
type Dependencies struct {
	Stops    gazetteer.StopGazetteer
	Stations gazetteer.StationGazetteer
	Topology gazetteer.LineTopology
	Status   gazetteer.StationStatus
	Feed     FeedProvider
}

// Message is one incoming request. Latitude and Longitude are nil when the
// message carries no exact position; HasPlace marks a place tag without
// usable coordinates.
type Message struct {
	Text          string   `json:"text"`
	From          string   `json:"from"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	HasPlace      bool     `json:"has_place,omitempty"`
	DirectMessage bool     `json:"direct_message,omitempty"`
}

// Bot resolves request messages for one network into departure replies.
type Bot struct {
	Username string
	Network  string

	deps   Dependencies
	parser *textparser.Parser

	// Now is swappable so tests can pin the clock.
	Now func() time.Time
}

func New(cfg config.BotConfig, deps Dependencies) *Bot {
	var parser *textparser.Parser
	if cfg.Network == NetworkBus {
		parser = textparser.NewParser(textparser.BusGrammar(), nil)
	} else {
		// Rail requests run with the line optional even on the Tube, so a
		// "from X to Y" message can have its line derived from the journey.
		parser = textparser.NewParser(textparser.DLRGrammar(), lineNameCorpus())
	}

	return &Bot{
		Username: cfg.Username,
		Network:  cfg.Network,
		deps:     deps,
		parser:   parser,
		Now:      time.Now,
	}
}

// Parse exposes the bot's request parser, for diagnostics.
func (b *Bot) Parse(text string) textparser.Result {
	return b.parser.Parse(b.Sanitize(text))
}

var hashtagPattern = regexp.MustCompile(`\s#\w+\b`)

// Sanitize scrubs hashtags and this bot's own @username off a message.
func (b *Bot) Sanitize(text string) string {
	text = hashtagPattern.ReplaceAllString(text, "")
	atUsername := "@" + b.Username
	if len(text) >= len(atUsername) && strings.EqualFold(text[:len(atUsername)], atUsername) {
		text = text[len(atUsername):]
	}
	return strings.TrimSpace(text)
}

// ProcessMessage turns one message into zero or more replies, one per
// requested route or line. A thank-you gets a pleasantry, a message with no
// request in it gets nothing, and failures get an apology.
func (b *Bot) ProcessMessage(ctx context.Context, msg Message) []string {
	text := b.Sanitize(msg.Text)

	lowered := strings.ToLower(text)
	if strings.HasPrefix(lowered, "thanks") || strings.HasPrefix(lowered, "thank you") {
		return []string{"No problem :)"}
	}

	if text == "" {
		// Rail bots tolerate blank messages; the bus bot asks for a number.
		if b.Network == NetworkBus {
			return []string{Reject(RejectBlankBusText).UserMessage()}
		}
		return nil
	}

	result := b.parser.Parse(text)
	log.Debug().Str("text", text).Strs("routes", result.Routes).
		Str("origin", result.Origin).Str("destination", result.Destination).
		Msg("Parsed request")

	now := b.Now()
	var replies []string
	var rejection *Rejection
	if b.Network == NetworkBus {
		replies, rejection = b.processBusRequest(ctx, msg, result, now)
	} else {
		replies, rejection = b.processRailRequest(ctx, msg, result, now)
	}

	if rejection != nil {
		log.Info().Str("kind", string(rejection.Kind)).Str("from", msg.From).Msg("Rejecting request")
		return []string{rejection.UserMessage()}
	}

	var bounded []string
	for _, reply := range replies {
		bounded = append(bounded, splitReply(reply)...)
	}
	return bounded
}

// maxReplyLength is the longest single reply a delivery channel will take.
const maxReplyLength = 140

// splitReply breaks a too-long departure board into several replies, cutting
// at slot boundaries so no departure time is ever chopped in half. A reply
// with no boundary before the limit goes out whole.
func splitReply(reply string) []string {
	var parts []string
	for len(reply) > maxReplyLength {
		cut := strings.LastIndex(reply[:maxReplyLength], "; ")
		if cut < 0 {
			break
		}
		parts = append(parts, reply[:cut])
		reply = reply[cut+2:]
	}
	return append(parts, reply)
}

// locateMessage validates the message's geolocation and projects it onto the
// OS grid. request is what the user asked for, quoted back in the apology.
func (b *Bot) locateMessage(msg Message, request string) (*geo.Point, *Rejection) {
	if msg.Latitude != nil && msg.Longitude != nil {
		point, err := geo.FromWGS84(*msg.Latitude, *msg.Longitude)
		if err != nil {
			return nil, Reject(RejectNotInUK)
		}
		if !point.InLondon() {
			return nil, Reject(RejectNotInLondon)
		}
		return &point, nil
	}

	if msg.HasPlace {
		return nil, Reject(RejectPlaceInfoOnly, request)
	}
	if msg.DirectMessage {
		return nil, Reject(RejectDMNotTaggable, request)
	}
	return nil, Reject(RejectNoGeotag, request)
}

// feedRejection maps a departure feed error to the apology for it.
func feedRejection(err error) *Rejection {
	if errors.Is(err, fetcher.ErrProviderUnavailable) {
		return Reject(RejectProviderDown)
	}
	log.Error().Err(err).Msg("Departure lookup failed")
	return Reject(RejectUnknownError)
}
