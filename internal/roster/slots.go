package roster

import (
	"errors"
	"fmt"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// Size is the number of slots in the standard layout
const Size = 13

// ErrNoEligibleSlot is returned when a player has no open slot to go into
var ErrNoEligibleSlot = errors.New("no eligible empty roster slot")

// DefaultLayout is the standard 13-slot configuration
func DefaultLayout() []models.SlotType {
	return []models.SlotType{
		models.SlotPG, models.SlotSG, models.SlotG,
		models.SlotSF, models.SlotPF, models.SlotF,
		models.SlotC, models.SlotC,
		models.SlotUTIL, models.SlotUTIL,
		models.SlotBENCH, models.SlotBENCH, models.SlotBENCH,
	}
}

// NewSlots returns an empty roster for layout
func NewSlots(layout []models.SlotType) []models.RosterSlot {
	slots := make([]models.RosterSlot, len(layout))
	for i, t := range layout {
		slots[i] = models.RosterSlot{Type: t}
	}
	return slots
}

// exactSlot maps a position to its dedicated slot
func exactSlot(pos models.Position) models.SlotType {
	return models.SlotType(pos)
}

// flexSlot maps a position to its flex slot, if any
func flexSlot(pos models.Position) (models.SlotType, bool) {
	switch pos {
	case models.PositionPG, models.PositionSG:
		return models.SlotG, true
	case models.PositionSF, models.PositionPF:
		return models.SlotF, true
	}
	return "", false
}

// Accepts reports whether a slot of type t can hold p
func Accepts(t models.SlotType, p models.Player) bool {
	switch t {
	case models.SlotUTIL, models.SlotBENCH:
		return true
	case models.SlotG:
		return p.EligibleAt(models.PositionPG) || p.EligibleAt(models.PositionSG)
	case models.SlotF:
		return p.EligibleAt(models.PositionSF) || p.EligibleAt(models.PositionPF)
	}
	return p.EligibleAt(models.Position(t))
}

// Assign places dp into the first open slot, preferring an exact position
// slot, then a flex slot, then UTIL, then BENCH. The input is not modified.
func Assign(slots []models.RosterSlot, dp models.DraftedPlayer) ([]models.RosterSlot, error) {
	idx := pickSlot(slots, dp.Player)
	if idx < 0 {
		return nil, fmt.Errorf("assign %s: %w", dp.ID, ErrNoEligibleSlot)
	}
	out := make([]models.RosterSlot, len(slots))
	copy(out, slots)
	placed := dp
	out[idx].Player = &placed
	return out, nil
}

func pickSlot(slots []models.RosterSlot, p models.Player) int {
	var order []models.SlotType
	for _, pos := range p.Positions {
		order = append(order, exactSlot(pos))
	}
	for _, pos := range p.Positions {
		if flex, ok := flexSlot(pos); ok {
			order = append(order, flex)
		}
	}
	order = append(order, models.SlotUTIL, models.SlotBENCH)

	for _, want := range order {
		for i, s := range slots {
			if s.Type == want && s.Empty() {
				return i
			}
		}
	}
	return -1
}

// Build replays players, in the order given, into an empty layout
func Build(layout []models.SlotType, players []models.DraftedPlayer) ([]models.RosterSlot, error) {
	slots := NewSlots(layout)
	for _, dp := range players {
		var err error
		slots, err = Assign(slots, dp)
		if err != nil {
			return nil, err
		}
	}
	return slots, nil
}

// Needs counts open slots per slot type
func Needs(slots []models.RosterSlot) models.Needs {
	needs := models.Needs{}
	for _, s := range slots {
		if s.Empty() {
			needs[s.Type]++
		}
	}
	return needs
}

// PositionalNeed counts open position and flex slots p could start in.
// UTIL and BENCH are not counted.
func PositionalNeed(slots []models.RosterSlot, p models.Player) int {
	n := 0
	for _, s := range slots {
		if !s.Empty() || s.Type == models.SlotUTIL || s.Type == models.SlotBENCH {
			continue
		}
		if Accepts(s.Type, p) {
			n++
		}
	}
	return n
}

// CanFillStarter reports whether p would go into a starting slot
func CanFillStarter(slots []models.RosterSlot, p models.Player) bool {
	if PositionalNeed(slots, p) > 0 {
		return true
	}
	for _, s := range slots {
		if s.Type == models.SlotUTIL && s.Empty() {
			return true
		}
	}
	return false
}

// EmptyCount counts open slots
func EmptyCount(slots []models.RosterSlot) int {
	n := 0
	for _, s := range slots {
		if s.Empty() {
			n++
		}
	}
	return n
}
