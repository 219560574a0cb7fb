package tfl

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/whensmy/whensmy/pkg/departures"
	"github.com/whensmy/whensmy/pkg/places"
	"github.com/whensmy/whensmy/pkg/util"
)

// The DLR has no prediction API; the bot scrapes the mobile departure board
// page. Each platform is a div with id "ttbox" holding a platform image, a
// publication time and up to three lines of train text.

// Platforms that never carry useful departures for a station.
var dlrPlatformsToIgnore = map[[2]string]bool{
	{"tog", "P1"}: true,
	{"wiq", "P1"}: true,
}

// Spare platforms at termini, only shown when they actually have a train.
var dlrPlatformsToIgnoreIfEmpty = map[[2]string]bool{
	{"ban", "P10"}: true,
	{"str", "P4B"}: true,
	{"lew", "P5"}:  true,
}

var dlrTrainInfo = regexp.MustCompile(`(?i)[1-4] ([^0-9]+)(?:([0-9]+) mins?)?`)

type dlrPlatformBox struct {
	platform string
	time     string
	lines    []string
}

// ParseDLRBoard scrapes the departure board page for one DLR station into a
// collection of trains slotted by platform. Termini run trains the same way
// from more than one platform, so overlapping platforms are merged.
func ParseDLRBoard(body []byte, station *places.Station, now time.Time) (*departures.Collection, error) {
	stationCode := strings.ToLower(station.Code)
	collection := departures.NewCollection()

	for _, box := range parseDLRBoxes(body) {
		if box.platform == "" || dlrPlatformsToIgnore[[2]string{stationCode, box.platform}] {
			continue
		}
		slot := departures.PlatformSlot(box.platform)
		collection.Set(slot, nil)

		publicationTime, err := time.Parse("15:04", box.time)
		if err != nil {
			log.Debug().Str("time", box.time).Str("platform", box.platform).Msg("Board has unparseable publication time")
		} else {
			for _, line := range box.lines {
				match := dlrTrainInfo.FindStringSubmatch(line)
				if match == nil {
					log.Debug().Str("line", line).Msg("Could not parse board line")
					continue
				}
				destination := util.Capwords(strings.TrimSpace(match[1]))
				if destination == "Terminates Here" {
					continue
				}

				minutes := 0
				if match[2] != "" {
					minutes, _ = strconv.Atoi(match[2])
				}
				departureTime := publicationTime.Add(time.Duration(minutes) * time.Minute).Format("1504")

				train, err := departures.NewTrain(destination, departureTime, "", now)
				if err != nil {
					continue
				}
				collection.AddToSlot(slot, train)
			}
		}

		if deps, _ := collection.Get(slot); len(deps) == 0 && dlrPlatformsToIgnoreIfEmpty[[2]string{stationCode, box.platform}] {
			collection.Delete(slot)
		}
	}

	collection.MergeCommonSlots()
	return collection, nil
}

// parseDLRBoxes walks the page's markup leniently, since the board is HTML
// rather than well-formed XML.
func parseDLRBoxes(body []byte) []dlrPlatformBox {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity

	var boxes []dlrPlatformBox
	var current *dlrPlatformBox

	// section tracks which text-bearing div we are inside.
	section := ""
	var buffer strings.Builder

	flushLine := func() {
		text := strings.TrimSpace(buffer.String())
		buffer.Reset()
		if text == "" || current == nil {
			return
		}
		switch section {
		case "time":
			current.time = text
		case "line1", "line23":
			current.lines = append(current.lines, text)
		}
	}

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			id := attributeValue(t, "id")
			switch {
			case name == "div" && id == "ttbox":
				flushLine()
				section = ""
				boxes = append(boxes, dlrPlatformBox{})
				current = &boxes[len(boxes)-1]
			case name == "div" && (id == "time" || id == "line1" || id == "line23"):
				flushLine()
				section = id
			case name == "div" && id != "":
				flushLine()
				section = ""
			case name == "img" && current != nil && current.platform == "":
				current.platform = platformFromImageSource(attributeValue(t, "src"))
			case name == "br":
				flushLine()
			}
		case xml.CharData:
			if section != "" {
				buffer.Write(t)
			}
		case xml.EndElement:
			name := strings.ToLower(t.Name.Local)
			if name == "p" || name == "div" {
				flushLine()
			}
			if name == "div" {
				section = ""
			}
		}
	}
	flushLine()

	return boxes
}

func attributeValue(element xml.StartElement, name string) string {
	for _, attribute := range element.Attr {
		if strings.ToLower(attribute.Name.Local) == name {
			return attribute.Value
		}
	}
	return ""
}

// platformFromImageSource turns a platform image filename like "p4a.gif"
// into the platform name "P4".
func platformFromImageSource(src string) string {
	if i := strings.LastIndex(src, "/"); i > -1 {
		src = src[i+1:]
	}
	base, _, _ := strings.Cut(src, ".")
	if base == "" {
		return ""
	}
	return strings.ToUpper(base[:len(base)-1])
}
