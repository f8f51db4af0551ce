package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/UPO33/MPMatch/internal/api"
	"github.com/UPO33/MPMatch/internal/matchmaking"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type command struct {
	usage string
	run   func(ctx context.Context, client *api.Client, args []string, out io.Writer) error
}

var commands = map[string]command{
	"create":   {"create --queue NAME --user ID[:SKILL]... [--data KEY=VALUE...]", runCreate},
	"cancel":   {"cancel TICKET_ID", runCancel},
	"status":   {"status", runStatus},
	"match":    {"match MATCH_ID", runMatch},
	"matches":  {"matches [--queue NAME] [--limit N]", runMatches},
	"failures": {"failures [--queue NAME]", runFailures},
}

func run(args []string, out io.Writer) error {
	var server string
	var timeout time.Duration

	flagSet := pflag.NewFlagSet("mmctl", pflag.ContinueOnError)
	flagSet.StringVar(&server, "server", "http://localhost:8080", "matchmaker base URL")
	flagSet.DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	flagSet.SetInterspersed(false)

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(out, flagSet)
			return nil
		}
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(out, flagSet)
		return nil
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", rest[0])
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return cmd.run(ctx, api.NewDefaultClient(server), rest[1:], out)
}

func printHelp(out io.Writer, flagSet *pflag.FlagSet) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "Usage: mmctl [--server URL] COMMAND [ARGS]")
	fmt.Fprintln(out, "\nCommands:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(out, "\nFlags:")
	fmt.Fprint(out, flagSet.FlagUsages())
}

func runCreate(ctx context.Context, client *api.Client, args []string, out io.Writer) error {
	var queue string
	var users []string
	var data map[string]string

	flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
	flagSet.StringVar(&queue, "queue", "", "queue to submit to")
	flagSet.StringArrayVar(&users, "user", nil, "user as ID or ID:SKILL, repeatable")
	flagSet.StringToStringVar(&data, "data", nil, "ticket data as KEY=VALUE pairs")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if queue == "" {
		return fmt.Errorf("--queue is required")
	}

	parsed, err := parseUsers(users)
	if err != nil {
		return err
	}

	req := &api.CreateTicketRequest{Queue: queue, Users: parsed}
	if len(data) > 0 {
		req.Data = make(map[string]any, len(data))
		for k, v := range data {
			req.Data[k] = v
		}
	}

	resp, err := client.CreateTicket(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(out, resp)
}

func runCancel(ctx context.Context, client *api.Client, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: mmctl cancel TICKET_ID")
	}
	ok, err := client.CancelTicket(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(out, api.CancelTicketResponse{Cancelled: ok})
}

func runStatus(ctx context.Context, client *api.Client, _ []string, out io.Writer) error {
	resp, err := client.GetQueuesStatus(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, resp)
}

func runMatch(ctx context.Context, client *api.Client, args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: mmctl match MATCH_ID")
	}
	resp, err := client.GetMatch(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(out, resp)
}

func runMatches(ctx context.Context, client *api.Client, args []string, out io.Writer) error {
	var queue string
	var limit int

	flagSet := pflag.NewFlagSet("matches", pflag.ContinueOnError)
	flagSet.StringVar(&queue, "queue", "", "only matches of this queue")
	flagSet.IntVar(&limit, "limit", 0, "maximum number of matches")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	resp, err := client.ListMatches(ctx, queue, limit)
	if err != nil {
		return err
	}
	return printJSON(out, resp)
}

func runFailures(ctx context.Context, client *api.Client, args []string, out io.Writer) error {
	var queue string

	flagSet := pflag.NewFlagSet("failures", pflag.ContinueOnError)
	flagSet.StringVar(&queue, "queue", "", "only failures of this queue")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	counts, err := client.GetFailureCounts(ctx, queue)
	if err != nil {
		return err
	}
	return printJSON(out, api.GetFailureCountsResponse{Counts: counts})
}

// parseUsers reads "id" or "id:skill" entries.
func parseUsers(raw []string) ([]matchmaking.User, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one --user is required")
	}

	users := make([]matchmaking.User, 0, len(raw))
	for _, entry := range raw {
		id, skill, hasSkill := strings.Cut(entry, ":")
		if id == "" {
			return nil, fmt.Errorf("invalid user %q: empty id", entry)
		}
		u := matchmaking.User{ID: id}
		if hasSkill {
			v, err := strconv.ParseFloat(skill, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid skill in %q: %w", entry, err)
			}
			u.Skill = v
		}
		users = append(users, u)
	}
	return users, nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
