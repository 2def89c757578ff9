package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/advisor"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/dal"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/pubsub"
)

// APIHandlers contains all API handler methods
type APIHandlers struct {
	dal     dal.DraftDAL
	hub     *pubsub.Hub
	advisor *advisor.Advisor
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(store dal.DraftDAL, hub *pubsub.Hub, adv *advisor.Advisor) *APIHandlers {
	return &APIHandlers{
		dal:     store,
		hub:     hub,
		advisor: adv,
	}
}

// errorResponse is the body of every non-2xx JSON response
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// statusFor maps draft and advisor errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, draft.ErrPlayerNotFound), errors.Is(err, draft.ErrTeamNotFound):
		return http.StatusNotFound
	case errors.Is(err, draft.ErrAlreadyDrafted),
		errors.Is(err, draft.ErrRosterFull),
		errors.Is(err, draft.ErrOverBudget),
		errors.Is(err, draft.ErrNothingToUndo),
		errors.Is(err, draft.ErrNoEligibleSlot),
		errors.Is(err, draft.ErrNoNomination):
		return http.StatusConflict
	case errors.Is(err, draft.ErrInvalidPrice),
		errors.Is(err, draft.ErrUnknownStrategy),
		errors.Is(err, advisor.ErrInvalidCount),
		errors.Is(err, advisor.ErrInvalidRatio):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail logs and writes err with its mapped status. Internal errors are not
// echoed to the client.
func fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "op", op, "error", err)
		respondError(w, status, op+" failed")
		return
	}
	logger.Warn("Request rejected", "op", op, "error", err, "status", status)
	respondError(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("Failed to decode request", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

// queryFloats reads a comma separated list of numbers
func queryFloats(r *http.Request, name string) ([]float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Split(v, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a comma separated list of numbers", name)
		}
		out = append(out, f)
	}
	return out, nil
}

func (h *APIHandlers) publish(t pubsub.EventType, state *models.DraftState, payload map[string]any) {
	h.hub.Publish(pubsub.NewEvent(t, state.Version, payload))
}

// GetDraftState returns the current draft state
func (h *APIHandlers) GetDraftState(w http.ResponseWriter, r *http.Request) {
	state, err := h.dal.GetState()
	if err != nil {
		fail(w, "get state", err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

type nominateRequest struct {
	PlayerID string `json:"playerId"`
	Bid      int    `json:"bid"`
	Team     string `json:"team"`
}

// Nominate puts a player up for bid
func (h *APIHandlers) Nominate(w http.ResponseWriter, r *http.Request) {
	var req nominateRequest
	if !decode(w, r, &req) {
		return
	}

	logger.Info("Nominating player", "player_id", req.PlayerID, "bid", req.Bid, "team", req.Team)
	state, err := h.dal.Nominate(req.PlayerID, req.Bid, req.Team)
	if err != nil {
		fail(w, "nominate", err)
		return
	}

	h.publish(pubsub.EventNominate, state, map[string]any{
		"playerId": req.PlayerID,
		"bid":      req.Bid,
		"team":     req.Team,
	})
	respondJSON(w, http.StatusOK, state)
}

// ClearNomination withdraws the player currently up for bid
func (h *APIHandlers) ClearNomination(w http.ResponseWriter, r *http.Request) {
	prev, err := h.dal.GetState()
	if err != nil {
		fail(w, "clear nomination", err)
		return
	}
	state, err := h.dal.ClearNomination()
	if err != nil {
		fail(w, "clear nomination", err)
		return
	}

	payload := map[string]any{}
	if prev.Nomination != nil {
		payload["playerId"] = prev.Nomination.Player.ID
		payload["team"] = prev.Nomination.NominatingBy
	}
	logger.Info("Nomination withdrawn", "player_id", payload["playerId"])
	h.publish(pubsub.EventWithdraw, state, payload)
	respondJSON(w, http.StatusOK, state)
}

// DraftPick finalizes an auction
func (h *APIHandlers) DraftPick(w http.ResponseWriter, r *http.Request) {
	var pick draft.Pick
	if !decode(w, r, &pick) {
		return
	}

	logger.Info("Drafting player", "player_id", pick.PlayerID, "team", pick.Team, "price", pick.Price)
	state, err := h.dal.DraftPlayer(pick)
	if err != nil {
		fail(w, "draft player", err)
		return
	}

	payload := map[string]any{
		"playerId": pick.PlayerID,
		"team":     pick.Team,
		"price":    pick.Price,
	}
	for _, dp := range state.DraftedPlayers {
		if dp.ID == pick.PlayerID {
			payload["pickId"] = dp.PickID
		}
	}
	h.publish(pubsub.EventPick, state, payload)
	respondJSON(w, http.StatusOK, state)
}

// UndoPick reverts the most recent pick
func (h *APIHandlers) UndoPick(w http.ResponseWriter, r *http.Request) {
	state, undone, err := h.dal.UndoLastPick()
	if err != nil {
		fail(w, "undo", err)
		return
	}

	logger.Info("Undid pick", "player_id", undone.ID, "team", undone.DraftedBy, "price", undone.Price)
	h.publish(pubsub.EventUndo, state, map[string]any{
		"playerId": undone.ID,
		"team":     undone.DraftedBy,
		"price":    undone.Price,
	})
	respondJSON(w, http.StatusOK, state)
}

// SetStrategy switches the operator's archetype
func (h *APIHandlers) SetStrategy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Strategy models.RosterStrategy `json:"strategy"`
	}
	if !decode(w, r, &req) {
		return
	}

	state, err := h.dal.SetStrategy(req.Strategy)
	if err != nil {
		fail(w, "set strategy", err)
		return
	}

	logger.Info("Strategy changed", "strategy", req.Strategy)
	h.publish(pubsub.EventStrategy, state, map[string]any{"strategy": string(req.Strategy)})
	respondJSON(w, http.StatusOK, state)
}

// ResetDraft resets the draft to initial state
func (h *APIHandlers) ResetDraft(w http.ResponseWriter, r *http.Request) {
	logger.Info("Resetting draft")
	if err := h.dal.Reset(); err != nil {
		fail(w, "reset", err)
		return
	}
	state, err := h.dal.GetState()
	if err != nil {
		fail(w, "reset", err)
		return
	}

	h.publish(pubsub.EventReset, state, nil)
	respondJSON(w, http.StatusOK, state)
}

// GetDraftLog returns the human-readable draft log
func (h *APIHandlers) GetDraftLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.dal.GetLog()
	if err != nil {
		fail(w, "get log", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// BidAdvice returns the bidding recommendation. Without playerId it advises
// on the current nomination.
func (h *APIHandlers) BidAdvice(w http.ResponseWriter, r *http.Request) {
	bid, err := queryInt(r, "bid", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	ratios, err := queryFloats(r, "ratios")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.advisor.Bid(r.Context(), r.URL.Query().Get("playerId"), bid, ratios...)
	if err != nil {
		fail(w, "bid advice", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// NominationAdvice returns players worth nominating
func (h *APIHandlers) NominationAdvice(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", 5)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	recs, err := h.advisor.Nominations(r.Context(), count)
	if err != nil {
		fail(w, "nomination advice", err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

// BudgetAdvice returns the phase budget plan
func (h *APIHandlers) BudgetAdvice(w http.ResponseWriter, r *http.Request) {
	alloc, err := h.advisor.Budget(r.Context())
	if err != nil {
		fail(w, "budget advice", err)
		return
	}
	respondJSON(w, http.StatusOK, alloc)
}

// CompetitionAdvice returns the threat assessment for one player
func (h *APIHandlers) CompetitionAdvice(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.advisor.Competition(r.Context(), r.URL.Query().Get("playerId"))
	if err != nil {
		fail(w, "competition advice", err)
		return
	}
	respondJSON(w, http.StatusOK, analysis)
}

// LeagueAdvice returns every competitor's profile
func (h *APIHandlers) LeagueAdvice(w http.ResponseWriter, r *http.Request) {
	overview, err := h.advisor.League(r.Context())
	if err != nil {
		fail(w, "league advice", err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// EventsSSE provides Server-Sent Events for realtime updates
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventChan := h.hub.Subscribe()
	defer h.hub.Unsubscribe(eventChan)

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				logger.Error("Failed to marshal SSE event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-keepalive.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
