// Package matching ranks volunteers by proximity to a help request.
package matching

import (
	"math"
	"sort"

	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/model"
	"github.com/muhammadheryan/reliefbridge/utils/geo"
)

// Rank returns the closest volunteers to (lat, lon), nearest first, at most
// constant.MaxMatches entries. Candidates without coordinates, or whose
// distance is not a finite number, are skipped.
// Equal scores keep their input order.
//
// The score is the plain distance; skills, availability and current load
// are not weighed.
func Rank(lat, lon float64, candidates []model.User) []model.MatchResult {
	matches := make([]model.MatchResult, 0, len(candidates))
	for _, c := range candidates {
		if c.Latitude == nil || c.Longitude == nil {
			continue
		}

		distance := geo.Distance(lat, lon, *c.Latitude, *c.Longitude)
		if math.IsNaN(distance) || math.IsInf(distance, 0) {
			continue
		}
		matches = append(matches, model.MatchResult{
			VolunteerID:   c.ID,
			VolunteerName: c.Name,
			Distance:      distance,
			Score:         distance,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})

	if len(matches) > constant.MaxMatches {
		matches = matches[:constant.MaxMatches]
	}
	return matches
}
