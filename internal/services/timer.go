package services

import "github.com/nabburi/15MinClarity/internal/models"

// The practice protocol is three fixed blocks totalling 15 minutes. Only the
// first block's label depends on the variant.
type TimerBlock struct {
	Label   string `json:"label"`
	Seconds int    `json:"seconds"`
}

func PracticeBlocks(variant models.Variant) []TimerBlock {
	downshift := "Downshift (Breath)"
	if variant == models.VariantSound {
		downshift = "Downshift (Sound)"
	}
	return []TimerBlock{
		{Label: downshift, Seconds: 4 * 60},
		{Label: "Steady Attention", Seconds: 6 * 60},
		{Label: "Grounded Recall", Seconds: 5 * 60},
	}
}

// PracticeTimer is the countdown state machine. It never touches the wall
// clock: time advances only through Tick, one second per call, so any
// scheduler (a ticker goroutine, a test loop) can drive it.
//
// Two independent holds gate the countdown: the user's pause and the
// transition hold raised when the elapsed time crosses into a new block. The
// transition hold freezes the clock while the cue plays and is released by
// CueDone; the very first block never raises it.
type PracticeTimer struct {
	blocks    []TimerBlock
	total     int
	remaining int

	running             bool
	pausedForTransition bool
	blockIndex          int
	completed           bool

	// OnTransition fires when the countdown freezes at a block boundary;
	// OnComplete fires exactly once when remaining reaches zero. Both are
	// invoked synchronously from Tick.
	OnTransition func(from, to int)
	OnComplete   func()
}

func NewPracticeTimer(blocks []TimerBlock) *PracticeTimer {
	total := 0
	for _, b := range blocks {
		total += b.Seconds
	}
	return &PracticeTimer{
		blocks:    blocks,
		total:     total,
		remaining: total,
	}
}

func (t *PracticeTimer) Start()  { t.running = true }
func (t *PracticeTimer) Pause()  { t.running = false }
func (t *PracticeTimer) Resume() { t.running = true }

// Restart resets to the full duration and resumes running.
func (t *PracticeTimer) Restart() {
	t.remaining = t.total
	t.blockIndex = 0
	t.pausedForTransition = false
	t.completed = false
	t.running = true
}

// CueDone releases the transition hold. Safe to call when no hold is active,
// so a stray or duplicate cue notification is harmless.
func (t *PracticeTimer) CueDone() { t.pausedForTransition = false }

// Tick advances the countdown by one second, unless a hold is active or the
// timer is finished.
func (t *PracticeTimer) Tick() {
	if !t.running || t.pausedForTransition || t.completed || t.remaining <= 0 {
		return
	}

	t.remaining--

	if t.remaining == 0 {
		t.completed = true
		if t.OnComplete != nil {
			t.OnComplete()
		}
		return
	}

	if next := t.blockIndexFor(t.total - t.remaining); next != t.blockIndex {
		prev := t.blockIndex
		t.blockIndex = next
		t.pausedForTransition = true
		if t.OnTransition != nil {
			t.OnTransition(prev, next)
		}
	}
}

func (t *PracticeTimer) blockIndexFor(elapsed int) int {
	cumulative := 0
	for i, b := range t.blocks {
		cumulative += b.Seconds
		if elapsed < cumulative {
			return i
		}
	}
	return len(t.blocks) - 1
}

func (t *PracticeTimer) Remaining() int       { return t.remaining }
func (t *PracticeTimer) Running() bool        { return t.running }
func (t *PracticeTimer) TransitionHeld() bool { return t.pausedForTransition }
func (t *PracticeTimer) BlockIndex() int      { return t.blockIndex }
func (t *PracticeTimer) Completed() bool      { return t.completed }

func (t *PracticeTimer) CurrentBlock() TimerBlock {
	return t.blocks[t.blockIndex]
}
