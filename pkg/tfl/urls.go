package tfl

import "fmt"

// URLProvider holds the format strings for the TfL feeds. Tests point these
// at local servers or fixture files.
type URLProvider struct {
	// BusURL takes the 5-digit stop code.
	BusURL string
	// TubeURL takes the line code then the station code.
	TubeURL string
	// DLRURL takes the lower-case station code.
	DLRURL string
	// StatusURL is the station status incident feed.
	StatusURL string
}

func LiveURLs() URLProvider {
	return URLProvider{
		BusURL:    "http://countdown.tfl.gov.uk/stopBoard/%s",
		TubeURL:   "http://cloud.tfl.gov.uk/TrackerNet/PredictionDetailed/%s/%s",
		DLRURL:    "http://www.dlrlondon.co.uk/xml/mobile/%s.xml",
		StatusURL: "http://cloud.tfl.gov.uk/TrackerNet/StationStatus/IncidentsOnly",
	}
}

func (u URLProvider) ForBusStop(stopCode string) string {
	return fmt.Sprintf(u.BusURL, stopCode)
}

func (u URLProvider) ForTubeStation(lineCode string, stationCode string) string {
	return fmt.Sprintf(u.TubeURL, lineCode, stationCode)
}

func (u URLProvider) ForDLRStation(stationCode string) string {
	return fmt.Sprintf(u.DLRURL, stationCode)
}
