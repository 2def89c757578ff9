package fuzz

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/advisor"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/cache"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/dal"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/handlers"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models/modelstest"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/pubsub"
)

func init() {
	// Initialize logger for tests
	logger.InitLevel("error")
}

func newAPI(t *testing.T) (*handlers.APIHandlers, dal.DraftDAL) {
	t.Helper()
	store, err := dal.NewMemoryDAL(draft.League{
		Teams:    modelstest.Teams(4),
		MyTeam:   "Team 1",
		Budget:   200,
		Strategy: models.StrategyBalanced,
	}, modelstest.Catalog(30))
	if err != nil {
		t.Fatalf("NewMemoryDAL() failed: %v", err)
	}
	adv := advisor.New(store, cache.NewMemoryAdviceCache(time.Minute))
	return handlers.NewAPIHandlers(store, pubsub.New(), adv), store
}

func post(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

// checkBooks fails when any team's spend and remaining budget drift apart
func checkBooks(t *testing.T, store dal.DraftDAL) {
	t.Helper()
	state, err := store.GetState()
	if err != nil {
		t.Fatalf("GetState() failed: %v", err)
	}
	for _, team := range state.Teams {
		if team.RemainingBudget+team.TotalSpent != state.TotalBudget || team.RemainingBudget < 0 {
			t.Fatalf("%s: remaining $%d + spent $%d != $%d", team.Name, team.RemainingBudget, team.TotalSpent, state.TotalBudget)
		}
	}
	if mr := state.MyRoster; mr.RemainingBudget+mr.TotalSpent != state.TotalBudget {
		t.Fatalf("my roster books off: %+v", mr)
	}
}

// FuzzHTTPDraftPick fuzzes the HTTP draft pick endpoint
func FuzzHTTPDraftPick(f *testing.F) {
	f.Add(`{"playerId":"p001","team":"Team 1","price":40}`)
	f.Add(`{"playerId":"p002","team":"Team 4","price":0}`)
	f.Add(`{"playerId":"p003","team":"Team 2","price":-5}`)
	f.Add(`{"playerId":"invalid","team":"Team 999","price":1}`)
	f.Add(`{"playerId":"p001","team":"Team 1","price":99999999999}`)

	f.Fuzz(func(t *testing.T, data string) {
		api, store := newAPI(t)

		w := post(api.DraftPick, "/api/draft/pick", data)
		if w.Code == http.StatusInternalServerError {
			t.Fatalf("pick %q returned 500: %s", data, w.Body.String())
		}
		checkBooks(t, store)

		// an accepted pick must undo cleanly
		if w.Code == http.StatusOK {
			if w := post(api.UndoPick, "/api/draft/undo", ""); w.Code != http.StatusOK {
				t.Fatalf("undo after accepted pick returned %d", w.Code)
			}
			state, _ := store.GetState()
			if len(state.DraftedPlayers) != 0 || state.MyRoster.RemainingBudget != 200 {
				t.Fatalf("undo did not restore the opening state")
			}
		}
	})
}

// FuzzHTTPNominate fuzzes the nominate endpoint
func FuzzHTTPNominate(f *testing.F) {
	f.Add("p001", 1, "Team 1")
	f.Add("p010", 0, "Team 2")
	f.Add("p010", 201, "Team 3")
	f.Add("", -1, "")

	f.Fuzz(func(t *testing.T, playerID string, bid int, team string) {
		api, store := newAPI(t)
		body, _ := json.Marshal(map[string]any{"playerId": playerID, "bid": bid, "team": team})

		w := post(api.Nominate, "/api/draft/nominate", string(body))
		if w.Code == http.StatusInternalServerError {
			t.Fatalf("nominate returned 500: %s", w.Body.String())
		}
		state, err := store.GetState()
		if err != nil {
			t.Fatal(err)
		}
		if w.Code == http.StatusOK {
			if state.Nomination == nil || state.Nomination.CurrentBid != bid || bid < 1 {
				t.Fatalf("accepted nomination not recorded correctly: %+v", state.Nomination)
			}
		} else if state.Nomination != nil {
			t.Fatalf("rejected nomination changed state")
		}
	})
}

// FuzzHTTPSetStrategy fuzzes the strategy endpoint
func FuzzHTTPSetStrategy(f *testing.F) {
	f.Add(`{"strategy":"punt_ft"}`)
	f.Add(`{"strategy":"unknown"}`)
	f.Add(`{"strategy":""}`)
	f.Add(`{"strategy":null}`)

	f.Fuzz(func(t *testing.T, data string) {
		api, store := newAPI(t)
		w := post(api.SetStrategy, "/api/draft/strategy", data)
		if w.Code == http.StatusInternalServerError {
			t.Fatalf("strategy %q returned 500", data)
		}
		state, _ := store.GetState()
		if !state.Strategy.Valid() {
			t.Fatalf("state holds invalid strategy %q", state.Strategy)
		}
	})
}

// FuzzHTTPBidAdvice fuzzes the bid advice query string
func FuzzHTTPBidAdvice(f *testing.F) {
	f.Add("p001", "10")
	f.Add("p030", "0")
	f.Add("", "")
	f.Add("p002", "-40")
	f.Add("p002", "1e9")

	f.Fuzz(func(t *testing.T, playerID, bid string) {
		api, _ := newAPI(t)
		q := url.Values{"playerId": {playerID}, "bid": {bid}}
		req := httptest.NewRequest(http.MethodGet, "/api/advice/bid?"+q.Encode(), nil)
		w := httptest.NewRecorder()
		api.BidAdvice(w, req)
		if w.Code == http.StatusInternalServerError {
			t.Fatalf("bid advice returned 500: %s", w.Body.String())
		}
		if w.Code != http.StatusOK {
			return
		}
		var rec struct {
			ShouldBid bool `json:"shouldBid"`
			MaxBid    int  `json:"maxBid"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
			t.Fatalf("advice is not JSON: %v", err)
		}
		if rec.MaxBid < 0 || rec.MaxBid > 200 {
			t.Fatalf("max bid $%d outside the budget", rec.MaxBid)
		}
	})
}

// FuzzJSONParsing fuzzes decoding of pick requests
func FuzzJSONParsing(f *testing.F) {
	f.Add(`{"playerId":"p001","team":"Team 1","price":5}`)
	f.Add(`{"pickId":"abc","playerId":"p001"}`)
	f.Add(`[]`)
	f.Add(`{`)

	f.Fuzz(func(t *testing.T, data string) {
		var pick draft.Pick
		_ = json.Unmarshal([]byte(data), &pick)
	})
}
