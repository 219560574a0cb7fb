package geo

import (
	"errors"

	"github.com/paulcager/osgridref"
)

// Point is a position on the Ordnance Survey national grid. All distance
// comparisons in the gazetteer happen in this projected plane, never on the
// geodetic lat/lon pair.
type Point struct {
	Easting  float64
	Northing float64
}

// DistanceSquaredFrom returns the squared planar distance to another point.
// The square root is never needed for nearest-stop ranking.
func (p Point) DistanceSquaredFrom(other Point) float64 {
	dx := p.Easting - other.Easting
	dy := p.Northing - other.Northing
	return dx*dx + dy*dy
}

var ErrOutsideUK = errors.New("position is outside the United Kingdom")

// FromWGS84 converts a GPS latitude/longitude into an OS easting/northing.
// Positions that fall off the national grid return ErrOutsideUK.
func FromWGS84(lat float64, lon float64) (Point, error) {
	latLon := osgridref.LatLonEllipsoidalDatum{Lat: lat, Lon: lon, Datum: osgridref.WGS84}
	gridRef := latLon.ToOsGridRef()

	point := Point{
		Easting:  float64(gridRef.Easting),
		Northing: float64(gridRef.Northing),
	}
	// The projection happily extrapolates beyond the grid, so bound it to
	// the 700km x 1300km the national grid actually covers.
	if point.Easting < 0 || point.Easting >= 700000 ||
		point.Northing < 0 || point.Northing >= 1300000 {
		return Point{}, ErrOutsideUK
	}
	return point, nil
}

// InLondon reports whether a point is within the London Buses operating
// window - roughly Chesham (W), Shenfield (E), Dorking (S) and Potters
// Bar (N).
func (p Point) InLondon() bool {
	return 495000 <= p.Easting && p.Easting <= 565000 &&
		145000 <= p.Northing && p.Northing <= 205000
}

var compassPoints = [8]string{"North", "NE", "East", "SE", "South", "SW", "West", "NW"}

// CompassDirection converts a stop's heading in degrees to a human-readable
// compass point. North covers -22° to +22°, NE 23° to 67°, and so on.
func CompassDirection(heading int) string {
	i := ((heading + 22) % 360) / 45
	if i < 0 {
		i += 8
	}
	return compassPoints[i]
}
