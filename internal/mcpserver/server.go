// Package mcpserver exposes the draft advisor as MCP tools so an assistant
// can ask for the same recommendations as the HTTP API.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/advisor"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

type BidArgs struct {
	PlayerID         string    `json:"player_id" jsonschema:"Player id to advise on (empty = the nominated player)"`
	Bid              int       `json:"bid" jsonschema:"Current bid in dollars (0 = the nomination's current bid)"`
	CompetitorRatios []float64 `json:"competitor_ratios,omitempty" jsonschema:"Rival budget-per-slot figures, used when no rival teams are tracked"`
}

type NominationArgs struct {
	Count int `json:"count" jsonschema:"How many nominations to suggest (default 5)"`
}

type CompetitionArgs struct {
	PlayerID string `json:"player_id" jsonschema:"Player id to assess (empty = the nominated player)"`
}

type NoArgs struct{}

// stateTopN is how many remaining players draft_state lists
const stateTopN = 10

// New registers the advisor tools on a fresh MCP server
func New(adv *advisor.Advisor, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "hoops-auction-advisor",
			Version: version,
		},
		nil,
	)
	log := logger.With("mcp")

	// Tool: bid advice for one player
	mcp.AddTool(server, &mcp.Tool{
		Name:        "bidding_recommendation",
		Description: "Whether to bid on a player, the maximum bid, the 5-part score breakdown and the reasoning",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args BidArgs) (*mcp.CallToolResult, any, error) {
		log.Debug("tool call", "tool", "bidding_recommendation", "player_id", args.PlayerID, "bid", args.Bid)
		rec, err := adv.Bid(ctx, args.PlayerID, args.Bid, args.CompetitorRatios...)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(rec), nil, nil
	})

	// Tool: nomination targets
	mcp.AddTool(server, &mcp.Tool{
		Name:        "nomination_targets",
		Description: "Players worth nominating: affordable targets that fill a need, and expensive players that drain rival budgets",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args NominationArgs) (*mcp.CallToolResult, any, error) {
		count := args.Count
		if count == 0 {
			count = 5
		}
		recs, err := adv.Nominations(ctx, count)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(recs), nil, nil
	})

	// Tool: budget plan
	mcp.AddTool(server, &mcp.Tool{
		Name:        "budget_allocation",
		Description: "Dollar targets for the early, middle and late draft plus the star-player reserve for the current strategy",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
		alloc, err := adv.Budget(ctx)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(alloc), nil, nil
	})

	// Tool: competition read
	mcp.AddTool(server, &mcp.Tool{
		Name:        "competition_analysis",
		Description: "Ranks every rival team's threat to win a player, with the expected final cost and a bidding approach",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CompetitionArgs) (*mcp.CallToolResult, any, error) {
		analysis, err := adv.Competition(ctx, args.PlayerID)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(analysis), nil, nil
	})

	// Tool: draft snapshot summary
	mcp.AddTool(server, &mcp.Tool{
		Name:        "draft_state",
		Description: "Summary of the live draft: phase, nomination, the operator's roster and budget, every team's budget and the best players left",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args NoArgs) (*mcp.CallToolResult, any, error) {
		state, err := adv.State()
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(summarize(state)), nil, nil
	})

	return server
}

// Handler serves the tools over streamable HTTP
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

type teamSummary struct {
	Name            string `json:"name"`
	IsMine          bool   `json:"isMine"`
	RemainingBudget int    `json:"remainingBudget"`
	SlotsRemaining  int    `json:"slotsRemaining"`
}

type stateSummary struct {
	Version          int                `json:"version"`
	Phase            models.DraftPhase  `json:"phase"`
	Strategy         string             `json:"strategy"`
	Nomination       *models.Nomination `json:"nomination,omitempty"`
	NextNominator    string             `json:"nextNominator"`
	PlayersDrafted   int                `json:"playersDrafted"`
	PlayersRemaining int                `json:"playersRemaining"`
	MyRoster         models.MyRoster    `json:"myRoster"`
	Teams            []teamSummary      `json:"teams"`
	BestAvailable    []models.Player    `json:"bestAvailable"`
}

func summarize(state *models.DraftState) stateSummary {
	out := stateSummary{
		Version:          state.Version,
		Phase:            state.Phase,
		Strategy:         string(state.Strategy),
		Nomination:       state.Nomination,
		NextNominator:    draft.NextNominator(state),
		PlayersDrafted:   len(state.DraftedPlayers),
		PlayersRemaining: len(state.PlayersRemaining),
		MyRoster:         state.MyRoster,
	}
	for _, t := range state.Teams {
		out.Teams = append(out.Teams, teamSummary{
			Name:            t.Name,
			IsMine:          t.IsMine,
			RemainingBudget: t.RemainingBudget,
			SlotsRemaining:  t.SlotsRemaining,
		})
	}
	// the pool is kept sorted by projected value
	n := min(stateTopN, len(state.PlayersRemaining))
	out.BestAvailable = append([]models.Player{}, state.PlayersRemaining[:n]...)
	return out
}

func toolJSON(v any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
