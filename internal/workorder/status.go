// Package workorder implements the maintenance work-order lifecycle: the
// status state machine, the processing-path field gates, and the submission
// service every mutation funnels through.
package workorder

import (
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
)

// statusRank gives each lifecycle state its position in the fixed forward
// ordering. Higher rank means later in the lifecycle.
var statusRank = map[models.Status]int{
	models.StatusPending:          0,
	models.StatusInProgress:       1,
	models.StatusSigned:           2,
	models.StatusConstructionDone: 3,
	models.StatusClosed:           4,
}

// allowedTransitions defines the permitted status changes. INTERNAL work
// closes straight from PENDING or IN_PROGRESS; the LEGAL path walks every
// intermediate state. CLOSED is terminal.
var allowedTransitions = map[models.Status]map[models.Status]struct{}{
	models.StatusPending: {
		models.StatusInProgress: {},
		models.StatusClosed:     {},
	},
	models.StatusInProgress: {
		models.StatusSigned: {},
		models.StatusClosed: {},
	},
	models.StatusSigned: {
		models.StatusConstructionDone: {},
	},
	models.StatusConstructionDone: {
		models.StatusClosed: {},
	},
	models.StatusClosed: {},
}

// KnownStatus reports whether s is one of the five lifecycle states.
func KnownStatus(s models.Status) bool {
	_, ok := statusRank[s]
	return ok
}

// IsForward reports whether moving from one status to another advances the
// lifecycle (strictly later in the fixed ordering).
func IsForward(from, to models.Status) bool {
	rf, okf := statusRank[from]
	rt, okt := statusRank[to]
	return okf && okt && rt > rf
}

// CanTransition reports whether the lifecycle allows the requested status
// change. Staying put is always allowed for a known status.
func CanTransition(from, to models.Status) bool {
	if !KnownStatus(from) || !KnownStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	_, ok := allowedTransitions[from][to]
	return ok
}
