package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// Client talks to a running matchmaker over connect.
type Client struct {
	createTicket    *connect.Client[CreateTicketRequest, CreateTicketResponse]
	cancelTicket    *connect.Client[CancelTicketRequest, CancelTicketResponse]
	getQueuesStatus *connect.Client[GetQueuesStatusRequest, GetQueuesStatusResponse]
	getMatch        *connect.Client[GetMatchRequest, Match]
	listMatches     *connect.Client[ListMatchesRequest, ListMatchesResponse]
	failureCounts   *connect.Client[GetFailureCountsRequest, GetFailureCountsResponse]
}

func NewClient(httpClient connect.HTTPClient, baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts := []connect.ClientOption{connect.WithCodec(JSONCodec{})}

	return &Client{
		createTicket:    connect.NewClient[CreateTicketRequest, CreateTicketResponse](httpClient, baseURL+CreateTicketProcedure, opts...),
		cancelTicket:    connect.NewClient[CancelTicketRequest, CancelTicketResponse](httpClient, baseURL+CancelTicketProcedure, opts...),
		getQueuesStatus: connect.NewClient[GetQueuesStatusRequest, GetQueuesStatusResponse](httpClient, baseURL+GetQueuesStatusProcedure, opts...),
		getMatch:        connect.NewClient[GetMatchRequest, Match](httpClient, baseURL+GetMatchProcedure, opts...),
		listMatches:     connect.NewClient[ListMatchesRequest, ListMatchesResponse](httpClient, baseURL+ListMatchesProcedure, opts...),
		failureCounts:   connect.NewClient[GetFailureCountsRequest, GetFailureCountsResponse](httpClient, baseURL+GetFailureCountsProcedure, opts...),
	}
}

// NewDefaultClient uses http.DefaultClient.
func NewDefaultClient(baseURL string) *Client {
	return NewClient(http.DefaultClient, baseURL)
}

func (c *Client) CreateTicket(ctx context.Context, req *CreateTicketRequest) (*CreateTicketResponse, error) {
	return unary(ctx, c.createTicket, req)
}

func (c *Client) CancelTicket(ctx context.Context, ticketID string) (bool, error) {
	resp, err := unary(ctx, c.cancelTicket, &CancelTicketRequest{TicketID: ticketID})
	if err != nil {
		return false, err
	}
	return resp.Cancelled, nil
}

func (c *Client) GetQueuesStatus(ctx context.Context) (*GetQueuesStatusResponse, error) {
	return unary(ctx, c.getQueuesStatus, &GetQueuesStatusRequest{})
}

func (c *Client) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	return unary(ctx, c.getMatch, &GetMatchRequest{MatchID: matchID})
}

func (c *Client) ListMatches(ctx context.Context, queue string, limit int) (*ListMatchesResponse, error) {
	return unary(ctx, c.listMatches, &ListMatchesRequest{Queue: queue, Limit: limit})
}

func (c *Client) GetFailureCounts(ctx context.Context, queue string) (map[string]int, error) {
	resp, err := unary(ctx, c.failureCounts, &GetFailureCountsRequest{Queue: queue})
	if err != nil {
		return nil, err
	}
	return resp.Counts, nil
}

func unary[Req, Res any](ctx context.Context, client *connect.Client[Req, Res], msg *Req) (*Res, error) {
	resp, err := client.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
