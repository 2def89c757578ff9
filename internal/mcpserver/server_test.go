package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/advisor"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/cache"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/dal"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models/modelstest"
)

func connect(t *testing.T) (*mcp.ClientSession, dal.DraftDAL) {
	t.Helper()
	store, err := dal.NewMemoryDAL(draft.League{
		Teams:    modelstest.Teams(4),
		MyTeam:   "Team 1",
		Budget:   200,
		Strategy: models.StrategyBalanced,
	}, modelstest.Catalog(60))
	if err != nil {
		t.Fatalf("NewMemoryDAL() failed: %v", err)
	}
	server := New(advisor.New(store, cache.NewMemoryAdviceCache(time.Minute)), "test")

	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	if _, err := server.Connect(ctx, serverTransport, nil); err != nil {
		t.Fatalf("server connect: %v", err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session, store
}

func call(t *testing.T, s *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := s.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	if len(res.Content) == 0 {
		t.Fatalf("%s: empty result", name)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("%s: expected text content, got %T", name, res.Content[0])
	}
	return text.Text, res.IsError
}

func TestListTools(t *testing.T) {
	s, _ := connect(t)
	res, err := s.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	got := map[string]bool{}
	for _, tool := range res.Tools {
		got[tool.Name] = true
	}
	for _, name := range []string{"bidding_recommendation", "nomination_targets", "budget_allocation", "competition_analysis", "draft_state"} {
		if !got[name] {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestBiddingRecommendationTool(t *testing.T) {
	s, store := connect(t)

	text, isErr := call(t, s, "bidding_recommendation", map[string]any{})
	if !isErr || !strings.Contains(text, "no player is nominated") {
		t.Errorf("expected a no-nomination error, got %q", text)
	}

	if _, err := store.Nominate("p001", 12, "Team 3"); err != nil {
		t.Fatal(err)
	}
	text, isErr = call(t, s, "bidding_recommendation", map[string]any{})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	var rec struct {
		PlayerID   string `json:"playerId"`
		CurrentBid int    `json:"currentBid"`
	}
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if rec.PlayerID != "p001" || rec.CurrentBid != 12 {
		t.Errorf("unexpected recommendation %+v", rec)
	}

	if text, isErr = call(t, s, "bidding_recommendation", map[string]any{"competitor_ratios": []float64{14, 9.5}}); isErr {
		t.Errorf("unexpected tool error with ratios: %s", text)
	}
	text, isErr = call(t, s, "bidding_recommendation", map[string]any{"competitor_ratios": []float64{-3}})
	if !isErr || !strings.Contains(text, "invalid competitor ratio") {
		t.Errorf("expected an invalid ratio error, got %q", text)
	}
}

func TestAdviceTools(t *testing.T) {
	s, _ := connect(t)

	text, isErr := call(t, s, "nomination_targets", map[string]any{"count": 3})
	if isErr {
		t.Fatalf("nomination_targets: %s", text)
	}
	var noms []json.RawMessage
	if err := json.Unmarshal([]byte(text), &noms); err != nil || len(noms) == 0 || len(noms) > 3 {
		t.Errorf("unexpected nominations %s", text)
	}

	if text, isErr = call(t, s, "budget_allocation", map[string]any{}); isErr {
		t.Errorf("budget_allocation: %s", text)
	}
	if text, isErr = call(t, s, "competition_analysis", map[string]any{"player_id": "p002"}); isErr {
		t.Errorf("competition_analysis: %s", text)
	}
	if text, isErr = call(t, s, "competition_analysis", map[string]any{"player_id": "ghost"}); !isErr {
		t.Errorf("expected an error for an unknown player, got %s", text)
	}
}

func TestDraftStateTool(t *testing.T) {
	s, store := connect(t)
	if _, err := store.DraftPlayer(draft.Pick{PlayerID: "p001", Team: "Team 2", Price: 50}); err != nil {
		t.Fatal(err)
	}

	text, isErr := call(t, s, "draft_state", map[string]any{})
	if isErr {
		t.Fatalf("draft_state: %s", text)
	}
	var sum stateSummary
	if err := json.Unmarshal([]byte(text), &sum); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if sum.PlayersDrafted != 1 || sum.PlayersRemaining != 59 {
		t.Errorf("unexpected counts %d/%d", sum.PlayersDrafted, sum.PlayersRemaining)
	}
	if len(sum.Teams) != 4 || len(sum.BestAvailable) != stateTopN {
		t.Errorf("unexpected summary %+v", sum)
	}
	if sum.NextNominator == "" {
		t.Error("expected a next nominator")
	}
}
