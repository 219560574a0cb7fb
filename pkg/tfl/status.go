package tfl

import "strings"

// StationStatusFeed is the TrackerNet station status document.
type StationStatusFeed struct {
	Statuses []StationStatusEntry `xml:"StationStatus"`
}

type StationStatusEntry struct {
	StatusDetails string `xml:"StatusDetails,attr"`
	Station       struct {
		Name string `xml:"Name,attr"`
	} `xml:"Station"`
	Status struct {
		Description string `xml:"Description,attr"`
	} `xml:"Status"`
}

// ClosedStations maps the name of every closed station to its published
// reason, trimmed and lower-cased for splicing into a sentence.
func (f *StationStatusFeed) ClosedStations() map[string]string {
	closed := map[string]string{}
	for _, status := range f.Statuses {
		if status.Status.Description == "Closed" {
			closed[status.Station.Name] = strings.ToLower(strings.TrimSpace(status.StatusDetails))
		}
	}
	return closed
}
