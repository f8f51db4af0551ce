package api

import (
	"time"

	"github.com/UPO33/MPMatch/internal/matchmaking"
)

const ServiceName = "mpmatch.v1.Matchmaker"

const (
	ServicePath = "/" + ServiceName + "/"

	CreateTicketProcedure     = ServicePath + "CreateTicket"
	CancelTicketProcedure     = ServicePath + "CancelTicket"
	GetQueuesStatusProcedure  = ServicePath + "GetQueuesStatus"
	GetMatchProcedure         = ServicePath + "GetMatch"
	ListMatchesProcedure      = ServicePath + "ListMatches"
	GetFailureCountsProcedure = ServicePath + "GetFailureCounts"
)

type CreateTicketRequest struct {
	Queue string             `json:"queue"`
	Data  map[string]any     `json:"data,omitempty"`
	Users []matchmaking.User `json:"users"`
}

// CreateTicketResponse reports whether the ticket entered its queue. A
// ticket that did not is reported as failed through the event channel.
type CreateTicketResponse struct {
	TicketID string `json:"ticket_id"`
	Queued   bool   `json:"queued"`
}

type CancelTicketRequest struct {
	TicketID string `json:"ticket_id"`
}

type CancelTicketResponse struct {
	Cancelled bool `json:"cancelled"`
}

type GetQueuesStatusRequest struct{}

type GetQueuesStatusResponse struct {
	Queues map[string]matchmaking.QueueStatus `json:"queues"`
}

type GetMatchRequest struct {
	MatchID string `json:"match_id"`
}

type ListMatchesRequest struct {
	Queue string `json:"queue,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type ListMatchesResponse struct {
	Matches []Match `json:"matches"`
}

type GetFailureCountsRequest struct {
	Queue string `json:"queue,omitempty"`
}

// GetFailureCountsResponse maps failure codes to the number of tickets that
// failed with them.
type GetFailureCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

type Ticket struct {
	TicketID string             `json:"ticket_id"`
	Users    []matchmaking.User `json:"users"`
	Data     map[string]any     `json:"data,omitempty"`
}

type Team struct {
	Tickets []Ticket `json:"tickets"`
}

type Match struct {
	MatchID   string    `json:"match_id"`
	QueueName string    `json:"queue_name"`
	BuildName string    `json:"build_name,omitempty"`
	NumUsers  int       `json:"num_users"`
	MinAgeMS  int64     `json:"min_age_ms"`
	MinSkill  float64   `json:"min_skill"`
	MaxSkill  float64   `json:"max_skill"`
	CreatedAt time.Time `json:"created_at"`
	Teams     []Team    `json:"teams,omitempty"`
}
