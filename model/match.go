package model

type MatchResult struct {
	VolunteerID   string  `json:"volunteer_id"`
	VolunteerName string  `json:"volunteer_name"`
	Distance      float64 `json:"distance_km"`
	Score         float64 `json:"score"`
}
