package constant

type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// PriorityRank orders priorities for the volunteer queue, higher first.
var PriorityRank = map[Priority]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

const (
	// MaxMatches is the size of the volunteer shortlist.
	MaxMatches = 3
	// AvailableRequestsLimit caps the pending queue shown to volunteers.
	AvailableRequestsLimit = 50
	// LiveRequestsLimit caps the map feed.
	LiveRequestsLimit = 200
)
