package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cantoria/cantoria/score"
)

// ErrNoMelody indicates an SATB draft added before any melody exists.
var ErrNoMelody = errors.New("session: no melody draft to harmonize against")

// ErrNoSuchVersion indicates a version number not present in history.
var ErrNoSuchVersion = errors.New("session: unknown draft version")

// DefaultLimit is the number of melody versions a history retains.
const DefaultLimit = 8

// Draft is one immutable snapshot in the session history.
type Draft struct {
	// ID is a random unique identifier for external reference.
	ID string `json:"id"`

	// Version is the monotonically increasing draft number; versions
	// are never reused, even after eviction.
	Version int `json:"version"`

	// Stage mirrors the snapshot's pipeline stage.
	Stage score.Stage `json:"stage"`

	// MelodyVersion is, for SATB drafts, the melody version the
	// harmonization was derived from; equal to Version on melody drafts.
	MelodyVersion int `json:"melody_version"`

	// CreatedAt is the insertion time.
	CreatedAt time.Time `json:"created_at"`

	// Score is the snapshot itself.
	Score *score.CanonicalScore `json:"score"`
}

// Options configures a history.
type Options struct {
	// Limit caps the retained melody versions; oldest are evicted
	// together with their dependent SATB drafts. Non-positive values
	// fall back to DefaultLimit.
	Limit int

	// Clock supplies timestamps; nil uses time.Now.
	Clock func() time.Time
}

// DefaultOptions returns the canonical history configuration.
func DefaultOptions() Options {
	return Options{Limit: DefaultLimit}
}

// History is a bounded, mutex-guarded draft store owned by the caller.
// It holds melody drafts plus the SATB drafts derived from them, and
// tracks which melody version is active: reads only surface SATB
// drafts belonging to the active melody.
type History struct {
	mu sync.Mutex

	limit int
	clock func() time.Time

	nextVersion int
	active      int

	melodies []Draft
	satbs    []Draft
}

// NewHistory builds an empty history.
func NewHistory(opts Options) *History {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &History{limit: opts.Limit, clock: opts.Clock, nextVersion: 1}
}

// AddMelody snapshots a melody-stage score as a new version and makes
// it the active one. The oldest version (with its SATB drafts) is
// evicted when the limit is exceeded.
func (h *History) AddMelody(sc *score.CanonicalScore) Draft {
	h.mu.Lock()
	defer h.mu.Unlock()

	d := Draft{
		ID:            uuid.NewString(),
		Version:       h.nextVersion,
		Stage:         score.StageMelody,
		MelodyVersion: h.nextVersion,
		CreatedAt:     h.clock(),
		Score:         sc.Clone(),
	}
	h.nextVersion++
	h.active = d.Version
	h.melodies = append(h.melodies, d)

	for len(h.melodies) > h.limit {
		evicted := h.melodies[0].Version
		h.melodies = h.melodies[1:]
		h.satbs = dropDependents(h.satbs, evicted)
	}

	return snapshot(d)
}

// AddSATB snapshots an SATB-stage score keyed to the active melody.
func (h *History) AddSATB(sc *score.CanonicalScore) (Draft, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active == 0 {
		return Draft{}, ErrNoMelody
	}

	d := Draft{
		ID:            uuid.NewString(),
		Version:       h.nextVersion,
		Stage:         score.StageSATB,
		MelodyVersion: h.active,
		CreatedAt:     h.clock(),
		Score:         sc.Clone(),
	}
	h.nextVersion++
	h.satbs = append(h.satbs, d)

	return snapshot(d), nil
}

// SelectMelody switches the active melody version; SATB drafts keyed
// to other versions disappear from reads until their version is
// selected again.
func (h *History) SelectMelody(version int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, d := range h.melodies {
		if d.Version == version {
			h.active = version

			return nil
		}
	}

	return ErrNoSuchVersion
}

// ActiveMelody returns the currently selected melody draft.
func (h *History) ActiveMelody() (Draft, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, d := range h.melodies {
		if d.Version == h.active {
			return snapshot(d), true
		}
	}

	return Draft{}, false
}

// Melodies lists every retained melody draft, oldest first.
func (h *History) Melodies() []Draft {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Draft, 0, len(h.melodies))
	for _, d := range h.melodies {
		out = append(out, snapshot(d))
	}

	return out
}

// SATBDrafts lists the SATB drafts belonging to the active melody,
// oldest first. Drafts keyed to other melody versions stay hidden.
func (h *History) SATBDrafts() []Draft {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []Draft
	for _, d := range h.satbs {
		if d.MelodyVersion == h.active {
			out = append(out, snapshot(d))
		}
	}

	return out
}

// LatestSATB returns the newest SATB draft of the active melody.
func (h *History) LatestSATB() (Draft, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := len(h.satbs) - 1; i >= 0; i-- {
		if h.satbs[i].MelodyVersion == h.active {
			return snapshot(h.satbs[i]), true
		}
	}

	return Draft{}, false
}

// Get resolves a draft by id, regardless of the active selection.
func (h *History) Get(id string) (Draft, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, d := range h.melodies {
		if d.ID == id {
			return snapshot(d), true
		}
	}
	for _, d := range h.satbs {
		if d.ID == id {
			return snapshot(d), true
		}
	}

	return Draft{}, false
}

// Len reports the retained melody version count.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.melodies)
}

func dropDependents(satbs []Draft, melodyVersion int) []Draft {
	out := satbs[:0]
	for _, d := range satbs {
		if d.MelodyVersion != melodyVersion {
			out = append(out, d)
		}
	}

	return out
}

// snapshot hands out a copy so callers can never mutate the
// stored draft through the returned score.
func snapshot(d Draft) Draft {
	d.Score = d.Score.Clone()

	return d
}
