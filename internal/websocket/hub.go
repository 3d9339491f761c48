package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nabburi/15MinClarity/internal/middleware"
	"github.com/nabburi/15MinClarity/internal/models"
	"github.com/nabburi/15MinClarity/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub runs one practice timer per websocket connection. The timer itself is
// the pure state machine from services; this driver owns the 1s ticker, the
// command stream from the client, and the bounded cue hold.
type Hub struct {
	auth   *middleware.JWTAuth
	cohort middleware.MembershipChecker

	// cueHold caps how long a block transition stays frozen waiting for the
	// client's cue_done. If the cue never finishes (playback failure, silent
	// client), the countdown resumes on its own rather than stalling.
	cueHold time.Duration
}

func NewHub(auth *middleware.JWTAuth, cohort middleware.MembershipChecker, cueHold time.Duration) *Hub {
	return &Hub{auth: auth, cohort: cohort, cueHold: cueHold}
}

type command struct {
	Action string `json:"action"` // "pause" | "resume" | "restart" | "cue_done"
}

type event struct {
	Type       string `json:"type"`
	Remaining  int    `json:"remaining,omitempty"`
	BlockIndex int    `json:"block_index"`
	BlockLabel string `json:"block_label,omitempty"`
	FromBlock  int    `json:"from_block,omitempty"`
}

// HandlePractice upgrades the connection and drives the countdown, pushing
// tick, block_transition and completed events, accepting pause/resume/
// restart/cue_done commands.
func (h *Hub) HandlePractice(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on websocket upgrades, so the token rides
	// in a query param.
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	participant, err := h.auth.ParseToken(tokenStr)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// The route bypasses the HTTP middleware chain, so the cohort gate runs
	// here before the upgrade.
	member, err := h.cohort.IsCohortMember(r.Context(), participant.Email)
	if err != nil {
		http.Error(w, "Membership check failed", http.StatusInternalServerError)
		return
	}
	if !member {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	variant := models.Variant(r.URL.Query().Get("variant"))
	if !variant.Valid() {
		variant = models.VariantBreath
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("Practice timer connected: participant %s (%s)", participant.ID, variant)
	h.run(conn, variant)
	log.Printf("Practice timer disconnected: participant %s", participant.ID)
}

// commandReader is the read half of the connection, split out so the
// forwarding loop can be exercised without a live socket.
type commandReader interface {
	ReadJSON(v interface{}) error
}

// readCommands forwards client commands until the connection read fails or
// quit closes. The returned channel closes once the goroutine has exited, so
// the caller can observe that nothing was left parked on the send.
func readCommands(conn commandReader, commands chan<- command, quit <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var cmd command
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			select {
			case commands <- cmd:
			case <-quit:
				return
			}
		}
	}()
	return done
}

func (h *Hub) run(conn *websocket.Conn, variant models.Variant) {
	timer := services.NewPracticeTimer(services.PracticeBlocks(variant))

	// Everything below runs on this goroutine; the reader only forwards
	// commands, so timer state needs no locking. quit unblocks a reader
	// caught mid-send when run returns first (timer completion).
	commands := make(chan command)
	quit := make(chan struct{})
	defer close(quit)
	done := readCommands(conn, commands, quit)

	var cueDeadline time.Time
	timer.OnTransition = func(from, to int) {
		cueDeadline = time.Now().Add(h.cueHold)
		conn.WriteJSON(event{
			Type:       "block_transition",
			FromBlock:  from,
			BlockIndex: to,
			BlockLabel: timer.CurrentBlock().Label,
			Remaining:  timer.Remaining(),
		})
	}
	timer.OnComplete = func() {
		conn.WriteJSON(event{Type: "completed", BlockIndex: timer.BlockIndex()})
	}

	timer.Start()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return

		case cmd := <-commands:
			switch cmd.Action {
			case "pause":
				timer.Pause()
			case "resume":
				timer.Resume()
			case "restart":
				timer.Restart()
			case "cue_done":
				timer.CueDone()
			}

		case <-ticker.C:
			// Expired cue holds release themselves; a failed playback must
			// never freeze the session.
			if timer.TransitionHeld() && !time.Now().Before(cueDeadline) {
				timer.CueDone()
			}

			timer.Tick()
			if timer.Completed() {
				// OnComplete already pushed the final event.
				return
			}

			conn.WriteJSON(event{
				Type:       "tick",
				Remaining:  timer.Remaining(),
				BlockIndex: timer.BlockIndex(),
				BlockLabel: timer.CurrentBlock().Label,
			})
		}
	}
}
