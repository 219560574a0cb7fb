package tfl

import (
	"context"
	"strings"
	"time"

	"github.com/whensmy/whensmy/pkg/departures"
	"github.com/whensmy/whensmy/pkg/fetcher"
	"github.com/whensmy/whensmy/pkg/places"
)

// Client fetches and parses the TfL feeds. It satisfies the station status
// interface of the gazetteer so the bot can check whether a station is open.
type Client struct {
	Fetcher *fetcher.Client
	URLs    URLProvider
}

func NewClient(fetchClient *fetcher.Client, urls URLProvider) *Client {
	return &Client{Fetcher: fetchClient, URLs: urls}
}

// BusDepartures returns up to three buses on the route from the stop.
func (c *Client) BusDepartures(ctx context.Context, stop *places.StopPoint, route string, now time.Time) ([]departures.Departure, error) {
	var board StopBoard
	if err := c.Fetcher.GetJSON(ctx, c.URLs.ForBusStop(stop.Code), &board); err != nil {
		return nil, err
	}
	return ParseBusBoard(&board, stop, route, now)
}

// TubeDepartures returns the trains at the station on the line, slotted by
// direction.
func (c *Client) TubeDepartures(ctx context.Context, station *places.Station, lineCode string, now time.Time) (*departures.Collection, error) {
	var predictions TubePredictions
	if err := c.Fetcher.GetXML(ctx, c.URLs.ForTubeStation(lineCode, station.Code), &predictions); err != nil {
		return nil, err
	}
	return ParseTubePredictions(&predictions, station, lineCode, now)
}

// DLRDepartures returns the trains at the station, slotted by platform.
func (c *Client) DLRDepartures(ctx context.Context, station *places.Station, now time.Time) (*departures.Collection, error) {
	body, err := c.Fetcher.Get(ctx, c.URLs.ForDLRStation(strings.ToLower(station.Code)))
	if err != nil {
		return nil, err
	}
	return ParseDLRBoard(body, station, now)
}

// ClosedStations fetches the station status feed and returns the closed
// stations. A failing status feed is treated as everything open, since the
// user's request can still be served.
func (c *Client) ClosedStations(ctx context.Context) (map[string]string, error) {
	var feed StationStatusFeed
	if err := c.Fetcher.GetXML(ctx, c.URLs.StatusURL, &feed); err != nil {
		return nil, nil
	}
	return feed.ClosedStations(), nil
}
