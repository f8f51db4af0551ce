package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/UPO33/MPMatch/internal/api"
	"github.com/UPO33/MPMatch/internal/constants"
	"github.com/UPO33/MPMatch/internal/domain"
	"github.com/UPO33/MPMatch/internal/repository"
	"github.com/UPO33/MPMatch/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

type MatchmakerServer struct {
	svc    *service.MatchmakerService
	logger zerolog.Logger
}

func NewMatchmakerServer(svc *service.MatchmakerService, logger zerolog.Logger) *MatchmakerServer {
	return &MatchmakerServer{svc: svc, logger: logger}
}

// Handler returns the service path prefix and the handler serving every
// procedure under it.
func (s *MatchmakerServer) Handler() (string, http.Handler) {
	opts := []connect.HandlerOption{
		connect.WithCodec(api.JSONCodec{}),
		connect.WithReadMaxBytes(constants.MaxRequestBytes),
	}

	mux := http.NewServeMux()
	mux.Handle(api.CreateTicketProcedure, connect.NewUnaryHandler(api.CreateTicketProcedure, s.CreateTicket, opts...))
	mux.Handle(api.CancelTicketProcedure, connect.NewUnaryHandler(api.CancelTicketProcedure, s.CancelTicket, opts...))
	mux.Handle(api.GetQueuesStatusProcedure, connect.NewUnaryHandler(api.GetQueuesStatusProcedure, s.GetQueuesStatus, opts...))
	mux.Handle(api.GetMatchProcedure, connect.NewUnaryHandler(api.GetMatchProcedure, s.GetMatch, opts...))
	mux.Handle(api.ListMatchesProcedure, connect.NewUnaryHandler(api.ListMatchesProcedure, s.ListMatches, opts...))
	mux.Handle(api.GetFailureCountsProcedure, connect.NewUnaryHandler(api.GetFailureCountsProcedure, s.GetFailureCounts, opts...))
	return api.ServicePath, mux
}

func (s *MatchmakerServer) CreateTicket(ctx context.Context, req *connect.Request[api.CreateTicketRequest]) (*connect.Response[api.CreateTicketResponse], error) {
	if strings.TrimSpace(req.Msg.Queue) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("queue is required"))
	}

	info := s.svc.CreateTicket(req.Msg.Queue, req.Msg.Data, req.Msg.Users)
	return connect.NewResponse(&api.CreateTicketResponse{TicketID: info.ID, Queued: info.Queued}), nil
}

func (s *MatchmakerServer) CancelTicket(ctx context.Context, req *connect.Request[api.CancelTicketRequest]) (*connect.Response[api.CancelTicketResponse], error) {
	if req.Msg.TicketID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("ticket_id is required"))
	}
	return connect.NewResponse(&api.CancelTicketResponse{Cancelled: s.svc.CancelTicket(req.Msg.TicketID)}), nil
}

func (s *MatchmakerServer) GetQueuesStatus(ctx context.Context, req *connect.Request[api.GetQueuesStatusRequest]) (*connect.Response[api.GetQueuesStatusResponse], error) {
	return connect.NewResponse(&api.GetQueuesStatusResponse{Queues: s.svc.QueuesStatus()}), nil
}

func (s *MatchmakerServer) GetMatch(ctx context.Context, req *connect.Request[api.GetMatchRequest]) (*connect.Response[api.Match], error) {
	match, err := s.svc.GetMatch(ctx, req.Msg.MatchID)
	if errors.Is(err, repository.ErrMatchNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("match %s not found", req.Msg.MatchID))
	}
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", req.Msg.MatchID).Msg("failed to load match")
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp := toAPIMatch(match)
	return connect.NewResponse(&resp), nil
}

func (s *MatchmakerServer) ListMatches(ctx context.Context, req *connect.Request[api.ListMatchesRequest]) (*connect.Response[api.ListMatchesResponse], error) {
	matches, err := s.svc.ListMatches(ctx, req.Msg.Queue, req.Msg.Limit)
	if err != nil {
		s.logger.Error().Err(err).Str("queue", req.Msg.Queue).Msg("failed to list matches")
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]api.Match, len(matches))
	for i := range matches {
		out[i] = toAPIMatch(&matches[i])
	}
	return connect.NewResponse(&api.ListMatchesResponse{Matches: out}), nil
}

func (s *MatchmakerServer) GetFailureCounts(ctx context.Context, req *connect.Request[api.GetFailureCountsRequest]) (*connect.Response[api.GetFailureCountsResponse], error) {
	counts, err := s.svc.FailureCounts(ctx, req.Msg.Queue)
	if err != nil {
		s.logger.Error().Err(err).Str("queue", req.Msg.Queue).Msg("failed to count ticket failures")
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.GetFailureCountsResponse{Counts: counts}), nil
}

func toAPIMatch(m *domain.Match) api.Match {
	out := api.Match{
		MatchID:   m.MatchID,
		QueueName: m.QueueName,
		BuildName: m.BuildName,
		NumUsers:  m.NumUsers,
		MinAgeMS:  m.MinAge.Milliseconds(),
		MinSkill:  m.MinSkill,
		MaxSkill:  m.MaxSkill,
		CreatedAt: m.CreatedAt,
	}
	for _, team := range m.Teams {
		t := api.Team{Tickets: make([]api.Ticket, len(team))}
		for i, seat := range team {
			t.Tickets[i] = api.Ticket{TicketID: seat.TicketID, Users: seat.Users, Data: seat.Data}
		}
		out.Teams = append(out.Teams, t)
	}
	return out
}
