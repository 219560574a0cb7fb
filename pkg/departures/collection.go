package departures

import (
	"sort"
	"strings"

	"github.com/whensmy/whensmy/pkg/places"
)

// SlotKind discriminates the three kinds of grouping key a Collection can
// hold: bus stops, platform labels and compass-direction labels.
type SlotKind int

const (
	SlotStop SlotKind = iota
	SlotPlatform
	SlotDirection
)

// Slot is a grouping key in a Collection. Buses are grouped by stop, DLR
// trains by platform, Tube trains by direction.
type Slot struct {
	Kind  SlotKind
	Point *places.StopPoint
	Label string
}

func StopSlot(point *places.StopPoint) Slot {
	return Slot{Kind: SlotStop, Point: point}
}

func PlatformSlot(label string) Slot {
	return Slot{Kind: SlotPlatform, Label: label}
}

func DirectionSlot(label string) Slot {
	return Slot{Kind: SlotDirection, Label: label}
}

// Key identifies the slot; no two slots in a collection share one.
func (s Slot) Key() string {
	if s.Kind == SlotStop {
		return s.Point.Key()
	}
	return s.Label
}

// DisplayLabel is the human-readable form of the slot used in rendering and
// when merged slots are renamed.
func (s Slot) DisplayLabel() string {
	if s.Kind == SlotStop {
		return s.Point.CleanName()
	}
	return s.Label
}

// CompareSlots defines the total order slots render in: stops before labels,
// stops by distance then run then name, labels lexicographically.
func CompareSlots(a Slot, b Slot) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	if a.Kind == SlotStop {
		switch {
		case a.Point.DistanceAway < b.Point.DistanceAway:
			return -1
		case a.Point.DistanceAway > b.Point.DistanceAway:
			return 1
		case a.Point.Run != b.Point.Run:
			return a.Point.Run - b.Point.Run
		}
		return strings.Compare(a.Point.CleanName(), b.Point.CleanName())
	}
	return strings.Compare(a.Label, b.Label)
}

type slotEntry struct {
	slot       Slot
	departures []Departure
}

// Collection is an ordered mapping from slots to the departures grouped
// under them. Within a slot, departures stay in insertion order until
// rendering sorts them.
type Collection struct {
	entries []slotEntry
}

func NewCollection() *Collection {
	return &Collection{}
}

func (c *Collection) indexOf(slot Slot) int {
	key := slot.Key()
	for i, entry := range c.entries {
		if entry.slot.Key() == key {
			return i
		}
	}
	return -1
}

func (c *Collection) Set(slot Slot, deps []Departure) {
	if i := c.indexOf(slot); i > -1 {
		c.entries[i] = slotEntry{slot: slot, departures: deps}
		return
	}
	c.entries = append(c.entries, slotEntry{slot: slot, departures: deps})
}

func (c *Collection) Get(slot Slot) ([]Departure, bool) {
	if i := c.indexOf(slot); i > -1 {
		return c.entries[i].departures, true
	}
	return nil, false
}

func (c *Collection) Delete(slot Slot) {
	if i := c.indexOf(slot); i > -1 {
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
	}
}

func (c *Collection) Contains(slot Slot) bool {
	return c.indexOf(slot) > -1
}

func (c *Collection) Len() int {
	return len(c.entries)
}

// Slots returns the slots in insertion order.
func (c *Collection) Slots() []Slot {
	slots := make([]Slot, len(c.entries))
	for i, entry := range c.entries {
		slots[i] = entry.slot
	}
	return slots
}

// AddToSlot appends a departure, creating the slot if it does not exist.
func (c *Collection) AddToSlot(slot Slot, departure Departure) {
	if i := c.indexOf(slot); i > -1 {
		c.entries[i].departures = append(c.entries[i].departures, departure)
		return
	}
	c.entries = append(c.entries, slotEntry{slot: slot, departures: []Departure{departure}})
}

// sortedEntries returns the entries ordered by CompareSlots.
func (c *Collection) sortedEntries() []slotEntry {
	sorted := make([]slotEntry, len(c.entries))
	copy(sorted, c.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareSlots(sorted[i].slot, sorted[j].slot) < 0
	})
	return sorted
}

// MergeCommonSlots merges the first pair of slots, in slot order, whose
// departures share a destination. Some platforms run departures the same way
// (e.g. at termini) without the feed saying so; destination overlap is the
// tell. At most one pair is merged per call, to be safe.
func (c *Collection) MergeCommonSlots() {
	sorted := c.sortedEntries()
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if !destinationsOverlap(sorted[i].departures, sorted[j].departures) {
				continue
			}

			merged := uniqueDepartures(append(append([]Departure{}, sorted[i].departures...), sorted[j].departures...))
			mergedSlot := mergeSlots(sorted[i].slot, sorted[j].slot)
			c.Delete(sorted[i].slot)
			c.Delete(sorted[j].slot)
			c.Set(mergedSlot, merged)
			return
		}
	}
}

func mergeSlots(a Slot, b Slot) Slot {
	label := a.DisplayLabel() + " & " + b.DisplayLabel()
	if a.Kind == SlotDirection {
		return DirectionSlot(label)
	}
	return PlatformSlot(label)
}

func destinationsOverlap(a []Departure, b []Departure) bool {
	destinations := map[string]bool{}
	for _, departure := range a {
		destinations[departure.DestinationName()] = true
	}
	for _, departure := range b {
		if destinations[departure.DestinationName()] {
			return true
		}
	}
	return false
}

func uniqueDepartures(deps []Departure) []Departure {
	seen := map[string]bool{}
	var unique []Departure
	for _, departure := range deps {
		if seen[departure.Key()] {
			continue
		}
		seen[departure.Key()] = true
		unique = append(unique, departure)
	}
	return unique
}

// Filter drops the departures in each slot that fail the predicate. A slot
// emptied by the filter is deleted; a slot that was already empty is only
// deleted when deleteExistingEmptySlots is set.
func (c *Collection) Filter(predicate func(Departure) bool, deleteExistingEmptySlots bool) {
	var kept []slotEntry
	for _, entry := range c.entries {
		if len(entry.departures) == 0 && !deleteExistingEmptySlots {
			kept = append(kept, entry)
			continue
		}

		var filtered []Departure
		for _, departure := range entry.departures {
			if predicate(departure) {
				filtered = append(filtered, departure)
			}
		}
		if len(filtered) > 0 {
			kept = append(kept, slotEntry{slot: entry.slot, departures: filtered})
		}
	}
	c.entries = kept
}

// Cleanup deals with empty slots. If no slot has any departures the whole
// collection empties (renders as blank); otherwise every empty slot is
// filled with the null departure the factory builds for it.
func (c *Collection) Cleanup(nullFactory func(Slot) Departure) {
	anyDepartures := false
	for _, entry := range c.entries {
		if len(entry.departures) > 0 {
			anyDepartures = true
			break
		}
	}
	if !anyDepartures {
		c.entries = nil
		return
	}

	for i, entry := range c.entries {
		if len(entry.departures) == 0 {
			c.entries[i].departures = []Departure{nullFactory(entry.slot)}
		}
	}
}

// String renders the collection for a reply. Slots are sorted and joined by
// "; "; within a slot, departures are deduplicated, sorted by time, capped
// at six, grouped by destination (earliest group first) and joined by ", ".
// Bus-stop slots are prefixed with the stop's clean name, unless all they
// hold is the "None shown" sentinel.
//
// e.g. "Upminster 1200 1201 1204, Tower Hill 1203; Wimbledon 1200"
func (c *Collection) String() string {
	if len(c.entries) == 0 {
		return ""
	}

	var rendered []string
	for _, entry := range c.sortedEntries() {
		deps := make([]Departure, len(entry.departures))
		copy(deps, entry.departures)
		sort.SliceStable(deps, func(i, j int) bool {
			return deps[i].Time().Before(deps[j].Time())
		})
		deps = uniqueDepartures(deps)
		if len(deps) > 6 {
			deps = deps[:6]
		}

		var destinationOrder []string
		timesByDestination := map[string][]string{}
		for _, departure := range deps {
			destination := departure.DestinationLabel()
			if _, ok := timesByDestination[destination]; !ok {
				destinationOrder = append(destinationOrder, destination)
			}
			timesByDestination[destination] = append(timesByDestination[destination], departure.TimeLabel())
		}

		var groups []string
		for _, destination := range destinationOrder {
			groups = append(groups, strings.TrimSpace(destination+" "+strings.Join(timesByDestination[destination], " ")))
		}
		line := strings.Join(groups, ", ")

		if entry.slot.Kind == SlotStop && !strings.HasPrefix(line, "None shown") {
			line = entry.slot.DisplayLabel() + " to " + line
		}
		rendered = append(rendered, line)
	}

	return strings.Join(rendered, "; ")
}
