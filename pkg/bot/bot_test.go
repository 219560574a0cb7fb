package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whensmy/whensmy/pkg/config"
	"github.com/whensmy/whensmy/pkg/departures"
	"github.com/whensmy/whensmy/pkg/fetcher"
	"github.com/whensmy/whensmy/pkg/gazetteer"
	"github.com/whensmy/whensmy/pkg/places"
)

// stubFeed serves canned departure boards, keyed by stop or station code.
type stubFeed struct {
	buses map[string][]departures.Departure
	tube  map[string]*departures.Collection
	dlr   map[string]*departures.Collection
	err   error
}

func (f *stubFeed) BusDepartures(_ context.Context, stop *places.StopPoint, _ string, _ time.Time) ([]departures.Departure, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.buses[stop.Code], nil
}

func (f *stubFeed) TubeDepartures(_ context.Context, station *places.Station, _ string, _ time.Time) (*departures.Collection, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tube[station.Code], nil
}

func (f *stubFeed) DLRDepartures(_ context.Context, station *places.Station, _ time.Time) (*departures.Collection, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dlr[station.Code], nil
}

type stubStatus map[string]string

func (s stubStatus) ClosedStations(_ context.Context) (map[string]string, error) {
	return s, nil
}

var testTime = time.Date(2012, time.January, 10, 18, 0, 0, 0, time.UTC)

func testGazetteer() *gazetteer.MemoryGazetteer {
	return &gazetteer.MemoryGazetteer{
		Stops: []places.StopPoint{
			{Name: "LIMEHOUSE STATION <>", Code: "53410", Route: "15", Run: 1, Sequence: 5, Heading: 90, Easting: 536720, Northing: 181100},
			{Name: "REGENT STREET", Code: "51111", Route: "15", Run: 1, Sequence: 12, Heading: 90, Easting: 529200, Northing: 180900},
			{Name: "LIMEHOUSE STATION <>", Code: "53411", Route: "15", Run: 2, Sequence: 7, Heading: 270, Easting: 536740, Northing: 181120},
			{Name: "CANARY WHARF", Code: "52240", Route: "D3", Run: 1, Sequence: 2, Heading: 180, Easting: 537500, Northing: 180200},
		},
		Stations: []places.Station{
			{Name: "Bank", Code: "BNK", Lines: []string{"N", "C", "DLR"}, Easting: 532600, Northing: 181300},
			{Name: "Tower Hill", Code: "THL", Lines: []string{"D", "O"}, Easting: 533500, Northing: 180700},
			{Name: "Barking", Code: "BKG", Lines: []string{"D", "H"}, Easting: 544200, Northing: 184100},
			{Name: "Upminster", Code: "UPM", Lines: []string{"D"}, Easting: 556300, Northing: 186900},
			{Name: "Lewisham", Code: "LEW", Lines: []string{"DLR"}, Easting: 537700, Northing: 175300},
			{Name: "Chesham", Code: "XXX", Lines: []string{"M"}, Easting: 496200, Northing: 201600},
		},
		LineBranches: map[string][][]string{
			"D":   {{"THL", "BKG", "UPM"}},
			"DLR": {{"BNK", "LEW"}},
		},
	}
}

func newTestBot(network string, feed FeedProvider, closed stubStatus) *Bot {
	g := testGazetteer()
	b := New(config.BotConfig{Username: "whensmy" + network, Network: network}, Dependencies{
		Stops:    g,
		Stations: g,
		Topology: g,
		Status:   closed,
		Feed:     feed,
	})
	b.Now = func() time.Time { return testTime }
	return b
}

func mustBus(t *testing.T, destination string, hhmm string) departures.Departure {
	bus, err := departures.NewBus(destination, hhmm, "Limehouse Station", testTime)
	require.NoError(t, err)
	return bus
}

func TestBusReplies(t *testing.T) {
	feed := &stubFeed{buses: map[string][]departures.Departure{
		"53410": {mustBus(t, "Regent Street", "1931")},
		"53411": {},
	}}
	b := newTestBot(NetworkBus, feed, nil)

	testCases := []struct {
		text    string
		replies []string
	}{
		{
			text:    "@whensmybus 15 from 53410",
			replies: []string{"15 Limehouse Station to Regent Street 1931"},
		},
		{
			text: "15 from Limehouse Station",
			replies: []string{
				"15 Limehouse Station to Regent Street 1931; None shown going West",
			},
		},
		{
			text:    "15 from Limehouse Station to Regent Street",
			replies: []string{"15 Limehouse Station to Regent Street 1931"},
		},
		{
			text:    "15 from 53410 #hashtag please",
			replies: []string{"15 Limehouse Station to Regent Street 1931"},
		},
		{
			text:    "Thanks!",
			replies: []string{"No problem :)"},
		},
		{
			text:    "218 from Limehouse Station",
			replies: []string{"Sorry! I couldn't recognise the number you gave me (218) as a London bus"},
		},
		{
			text:    "15 from 00000",
			replies: []string{"Sorry! I couldn't recognise the number you gave me (00000) as a valid bus stop ID"},
		},
		{
			text:    "15 from 52240",
			replies: []string{"Sorry! The 15 route doesn't call at the stop with ID 52240"},
		},
		{
			text:    "15 from Eucgekewf78",
			replies: []string{"Sorry! I couldn't find any bus stops on the 15 route by that name (Eucgekewf78)"},
		},
		{
			text:    "15",
			replies: []string{"Sorry! Your Tweet wasn't geotagged. Please enable GPS, or say '15 from <placename>' http://bit.ly/sJbgBe"},
		},
		{
			text:    "",
			replies: []string{"Sorry! I need to have a bus number in order to find the times for it"},
		},
		{
			// Not a request at all, so no reply at all.
			text:    "what a lovely day",
			replies: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.replies, b.ProcessMessage(context.Background(), Message{Text: tc.text, From: "rider"}))
		})
	}
}

func TestBusRoutesAnsweredIndependently(t *testing.T) {
	feed := &stubFeed{buses: map[string][]departures.Departure{
		"53410": {mustBus(t, "Regent Street", "1931")},
	}}
	b := newTestBot(NetworkBus, feed, nil)

	replies := b.ProcessMessage(context.Background(), Message{Text: "15 218 from 53410"})
	require.Len(t, replies, 2)
	assert.Equal(t, "15 Limehouse Station to Regent Street 1931", replies[0])
	assert.Equal(t, "Sorry! I couldn't recognise the number you gave me (218) as a London bus", replies[1])
}

func TestBusRepeatedRouteAnsweredOnce(t *testing.T) {
	feed := &stubFeed{buses: map[string][]departures.Departure{
		"53410": {mustBus(t, "Regent Street", "1931")},
	}}
	b := newTestBot(NetworkBus, feed, nil)

	replies := b.ProcessMessage(context.Background(), Message{Text: "15 15 from 53410"})
	require.Len(t, replies, 1)
	assert.Equal(t, "15 Limehouse Station to Regent Street 1931", replies[0])
}

func TestBusFeedDownIsFatal(t *testing.T) {
	feed := &stubFeed{err: fmt.Errorf("%w: status 503", fetcher.ErrProviderUnavailable)}
	b := newTestBot(NetworkBus, feed, nil)

	replies := b.ProcessMessage(context.Background(), Message{Text: "15 25 from 53410"})
	assert.Equal(t, []string{"Sorry! I can't access TfL's servers right now - they appear to be down :("}, replies)
}

func TestBusGeolocated(t *testing.T) {
	feed := &stubFeed{buses: map[string][]departures.Departure{
		"53410": {mustBus(t, "Regent Street", "1931")},
		"53411": {mustBus(t, "Blackwall", "1933")},
	}}
	b := newTestBot(NetworkBus, feed, nil)

	lat, lon := 51.5124, -0.0397
	replies := b.ProcessMessage(context.Background(), Message{Text: "15", Latitude: &lat, Longitude: &lon})
	require.Len(t, replies, 1)
	assert.True(t, strings.HasPrefix(replies[0], "15 Limehouse Station to"), replies[0])

	// A Place tag is not precise enough, and DMs cannot be geotagged at all.
	replies = b.ProcessMessage(context.Background(), Message{Text: "15", HasPlace: true})
	assert.Equal(t, []string{"Sorry! The Place info on your Tweet isn't precise enough http://bit.ly/rCbVmP Please enable GPS, or say '15 from <place>'"}, replies)

	replies = b.ProcessMessage(context.Background(), Message{Text: "15", DirectMessage: true})
	assert.Equal(t, []string{"Sorry! Direct messages can't use geotagging. Please send your message in the format '15 from <placename>'"}, replies)
}

func tubeBoard(t *testing.T) *departures.Collection {
	collection := departures.NewCollection()
	collection.Set(departures.DirectionSlot("Eastbound"), nil)
	collection.Set(departures.DirectionSlot("Westbound"), nil)

	upminster, err := departures.NewTubeTrain("Upminster", "Eastbound", "1202", "123", "D", "500", testTime)
	require.NoError(t, err)
	terminating, err := departures.NewTubeTrain("Tower Hill", "Eastbound", "1204", "124", "D", "501", testTime)
	require.NoError(t, err)

	collection.AddToSlot(departures.DirectionSlot("Eastbound"), upminster)
	collection.AddToSlot(departures.DirectionSlot("Eastbound"), terminating)
	return collection
}

func TestTubeReplies(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		replies []string
	}{
		{
			name:    "line and origin",
			text:    "District Line from Tower Hill",
			replies: []string{"Tower Hill to Upminster 1202; None shown going Westbound"},
		},
		{
			name:    "destination filter",
			text:    "District Line from Tower Hill to Barking",
			replies: []string{"Tower Hill to Upminster 1202"},
		},
		{
			name:    "direction with no trains",
			text:    "District Line from Tower Hill Westbound",
			replies: []string{"Sorry! There are no Westbound District Line trains currently shown going from Tower Hill"},
		},
		{
			name:    "unrecognisable direction",
			text:    "District Line from Tower Hill Inbound",
			replies: []string{"Sorry! I couldn't recognise that direction (Inbound); try North, East, South or West"},
		},
		{
			name:    "line derived but ambiguous",
			text:    "from Bank",
			replies: []string{"Sorry! There are several lines serving Bank, please specify one"},
		},
		{
			name:    "no direct route on any line",
			text:    "from Bank to Upminster",
			replies: []string{"Sorry! There is no direct route between Bank and Upminster on the Tube"},
		},
		{
			name:    "station not on the feed",
			text:    "Met Line from Chesham",
			replies: []string{"Sorry! TfL don't provide live departure data for Chesham station :("},
		},
		{
			name:    "unknown station",
			text:    "District Line from Narnia Central",
			replies: []string{"Sorry! I couldn't recognise that station (Narnia Central) as being on the District Line"},
		},
		{
			name:    "no geotag quotes the line back",
			text:    "Victoria Line",
			replies: []string{"Sorry! Your Tweet wasn't geotagged. Please enable GPS, or say 'Victoria from <placename>' http://bit.ly/sJbgBe"},
		},
		{
			name:    "blank messages are tolerated",
			text:    "",
			replies: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			feed := &stubFeed{tube: map[string]*departures.Collection{"THL": tubeBoard(t)}}
			b := newTestBot(NetworkTube, feed, nil)
			assert.Equal(t, tc.replies, b.ProcessMessage(context.Background(), Message{Text: tc.text, From: "rider"}))
		})
	}
}

func TestTubeStationClosed(t *testing.T) {
	feed := &stubFeed{tube: map[string]*departures.Collection{"THL": tubeBoard(t)}}
	b := newTestBot(NetworkTube, feed, stubStatus{"Tower Hill": "due to flooding"})

	replies := b.ProcessMessage(context.Background(), Message{Text: "District Line from Tower Hill"})
	assert.Equal(t, []string{"Sorry! Tower Hill station is currently closed due to flooding"}, replies)
}

func TestDLRReplies(t *testing.T) {
	board := departures.NewCollection()
	board.Set(departures.PlatformSlot("P2"), nil)
	lewisham, err := departures.NewTrain("Lewisham", "1203", "", testTime)
	require.NoError(t, err)
	board.AddToSlot(departures.PlatformSlot("P1"), lewisham)

	feed := &stubFeed{dlr: map[string]*departures.Collection{"BNK": board}}
	b := newTestBot(NetworkDLR, feed, nil)

	replies := b.ProcessMessage(context.Background(), Message{Text: "DLR from Bank"})
	assert.Equal(t, []string{"Bank to Lewisham 1203; None shown going from P2"}, replies)

	// The line is implied for a DLR bot.
	replies = b.ProcessMessage(context.Background(), Message{Text: "from Bank"})
	assert.Equal(t, []string{"Bank to Lewisham 1203; None shown going from P2"}, replies)
}

func TestRepliesAreBounded(t *testing.T) {
	b := newTestBot(NetworkBus, &stubFeed{}, nil)

	longName := strings.Repeat("W", 140)
	replies := b.ProcessMessage(context.Background(), Message{Text: "15 from " + longName})
	require.Len(t, replies, 1)
	assert.True(t, strings.HasPrefix(replies[0], "Sorry! "))
	assert.LessOrEqual(t, len(replies[0]), len("Sorry! ")+115)
}

func TestSplitReply(t *testing.T) {
	assert.Equal(t, []string{"15 Limehouse Station to Regent Street 1931"},
		splitReply("15 Limehouse Station to Regent Street 1931"))

	slot := strings.Repeat("W", 60)
	long := slot + "; " + slot + "; " + slot
	parts := splitReply(long)
	require.Len(t, parts, 2)
	assert.Equal(t, slot+"; "+slot, parts[0])
	assert.Equal(t, slot, parts[1])

	// An unbreakable reply goes out whole rather than being chopped.
	unbreakable := strings.Repeat("W", 150)
	assert.Equal(t, []string{unbreakable}, splitReply(unbreakable))
}

func TestLineByName(t *testing.T) {
	assert.Equal(t, "D", LineByName("District"))
	assert.Equal(t, "H", LineByName("H&C"))
	assert.Equal(t, "J", LineByName("Jubillee"))
	assert.Equal(t, "M", LineByName("Met"))
	assert.Equal(t, "DLR", LineByName("Docklands Light Railway"))
	assert.Equal(t, "V", LineByName("Victora"))
	assert.Equal(t, "", LineByName("Hogwarts Express"))
}
