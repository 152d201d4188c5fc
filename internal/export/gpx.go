package export

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/hperssn/mapty/internal/domain"
)

const creator = "mapty"

// GPX renders workouts as GPX 1.1 waypoints, one per workout.
func GPX(workouts []domain.Workout) ([]byte, error) {
	doc := &gpx.GPX{
		Creator: creator,
		Name:    "Mapty workouts",
	}

	for _, w := range workouts {
		doc.Waypoints = append(doc.Waypoints, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  w.Coords.Lat,
				Longitude: w.Coords.Lng,
			},
			Timestamp:   w.Date,
			Name:        w.PopupContent,
			Description: w.Summary(),
			Type:        string(w.Kind),
			Source:      w.ID,
		})
	}

	data, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("encode gpx: %w", err)
	}
	return data, nil
}
