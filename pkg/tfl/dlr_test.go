package tfl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whensmy/whensmy/pkg/departures"
	"github.com/whensmy/whensmy/pkg/places"
)

const lewishamBoard = `<html><body>
<div id="ttbox">
  <div id="platformleft"><img src="p1a.gif" alt=""></div>
  <div id="platformmiddle">
    <div id="time">12:00</div>
    <div id="line1">1 Bank 4 mins</div>
    <div id="line23"><p>2 Bank 7 mins<br>3 Tower Gateway 3 mins</p></div>
  </div>
  <div id="platformright"></div>
</div>
<div id="ttbox">
  <div id="platformleft"><img src="p2a.gif" alt=""></div>
  <div id="platformmiddle">
    <div id="time">12:00</div>
    <div id="line1">1 Bank 9 mins</div>
    <div id="line23"><p>2 Terminates Here</p></div>
  </div>
  <div id="platformright"></div>
</div>
</body></html>`

func TestParseDLRBoardMergesCommonPlatforms(t *testing.T) {
	now := time.Date(2012, time.January, 10, 12, 0, 0, 0, time.UTC)
	station := &places.Station{Name: "Lewisham", Code: "lew"}

	collection, err := ParseDLRBoard([]byte(lewishamBoard), station, now)
	require.NoError(t, err)

	// Both platforms send trains to Bank, so they merge into one slot.
	require.Equal(t, 1, collection.Len())
	merged, ok := collection.Get(departures.PlatformSlot("P1 & P2"))
	require.True(t, ok)
	require.Len(t, merged, 4, "terminating trains are dropped at parse time")

	assert.Equal(t, "Tower Gateway 1203, Bank 1204 1207 1209", collection.String())
}

const spareBoard = `<html><body>
<div id="ttbox">
  <div id="platformleft"><img src="p4a.gif" alt=""></div>
  <div id="platformmiddle">
    <div id="time">12:00</div>
    <div id="line1">1 Stratford 5 mins</div>
    <div id="line23"><p></p></div>
  </div>
</div>
<div id="ttbox">
  <div id="platformleft"><img src="p5a.gif" alt=""></div>
  <div id="platformmiddle">
    <div id="time">12:00</div>
    <div id="line1"></div>
    <div id="line23"><p></p></div>
  </div>
</div>
</body></html>`

func TestParseDLRBoardIgnoresEmptySparePlatform(t *testing.T) {
	now := time.Date(2012, time.January, 10, 12, 0, 0, 0, time.UTC)
	station := &places.Station{Name: "Lewisham", Code: "lew"}

	collection, err := ParseDLRBoard([]byte(spareBoard), station, now)
	require.NoError(t, err)

	assert.Equal(t, 1, collection.Len(), "empty spare platform P5 at Lewisham disappears")
	assert.True(t, collection.Contains(departures.PlatformSlot("P4")))
	assert.False(t, collection.Contains(departures.PlatformSlot("P5")))
}

func TestParseDLRBoardIgnoredPlatform(t *testing.T) {
	now := time.Date(2012, time.January, 10, 12, 0, 0, 0, time.UTC)

	const towerBoard = `<html><body>
<div id="ttbox">
  <div id="platformleft"><img src="p1a.gif" alt=""></div>
  <div id="platformmiddle">
    <div id="time">12:00</div>
    <div id="line1">1 Beckton 2 mins</div>
    <div id="line23"><p></p></div>
  </div>
</div>
</body></html>`

	station := &places.Station{Name: "Tower Gateway", Code: "tog"}
	collection, err := ParseDLRBoard([]byte(towerBoard), station, now)
	require.NoError(t, err)
	assert.Equal(t, 0, collection.Len(), "P1 at Tower Gateway is never shown")
}
