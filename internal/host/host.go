// Package host runs the native messaging side of tabtime: it frames JSON
// requests on a stream, dispatches them to the tracker and session store,
// and persists the live session on shutdown.
package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/kwasow/tabtime/internal/session"
	"github.com/kwasow/tabtime/internal/track"
)

var (
	errAlreadyStarted = errors.New("tracker already started")
	errNotStarted     = errors.New("tracker not started")
)

// Host owns at most one active tracker and serializes all access to it:
// the dispatch loop and the signal handler share the same mutex-guarded
// state instead of touching it concurrently.
type Host struct {
	in    io.Reader
	out   io.Writer
	store *session.Store
	log   *log.Logger

	mu      sync.Mutex
	tracker *track.Tracker

	// test seams: exit is swapped out by interrupt-path tests and clock
	// makes tracker timing deterministic.
	exit  func(code int)
	clock func() uint64
}

// New returns a Host reading requests from in and writing responses to out.
func New(in io.Reader, out io.Writer, store *session.Store, logger *log.Logger) *Host {
	return &Host{
		in:    in,
		out:   out,
		store: store,
		log:   logger.With("run", uuid.NewString()[:8]),
		exit:  os.Exit,
	}
}

// Run drives the request/response loop until the stream ends or a framing
// failure occurs. A clean end-of-file persists the active session without
// live tab instances and returns nil; an interrupt signal persists it with
// instances and exits immediately.
func (h *Host) Run() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigCh)
		close(sigCh)
	}()
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		h.log.Info("interrupt received, persisting session", "signal", sig)
		h.persistAndExit()
	}()

	h.log.Info("host started", "sessions", h.store.Dir())

	for {
		payload, err := readFrame(h.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				h.persistOnClose()
				h.log.Info("connection closed")
				return nil
			}
			h.log.Error("reading message", "err", err)
			// Best effort: the peer may already be gone.
			_ = h.send(failure(0, err))
			return err
		}

		var req Request
		if err := json.Unmarshal(payload, &req); err != nil {
			h.log.Error("decoding message", "err", err)
			_ = h.send(failure(0, err))
			return fmt.Errorf("decoding message: %w", err)
		}

		resp := h.dispatch(req)
		if err := h.send(resp); err != nil {
			h.log.Error("sending response", "err", err)
			return err
		}
	}
}

func (h *Host) send(resp Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	if err := writeFrame(h.out, payload); err != nil {
		return err
	}
	if f, ok := h.out.(*os.File); ok {
		// Native messaging peers block on unflushed pipes.
		_ = f.Sync()
	}
	return nil
}

// dispatch routes one request under the state lock. Domain failures become
// error responses and never stop the loop.
func (h *Host) dispatch(req Request) Response {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch req.Action {
	case ActionPing:
		return success(req.ID, nil)

	case ActionStart:
		var data sessionName
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return failure(req.ID, fmt.Errorf("decoding %s data: %w", req.Action, err))
		}
		if err := h.start(data.SessionName); err != nil {
			return failure(req.ID, err)
		}
		return success(req.ID, nil)

	case ActionStop:
		if err := h.stop(); err != nil {
			return failure(req.ID, err)
		}
		return success(req.ID, nil)

	case ActionGetActive:
		if h.tracker == nil {
			return success(req.ID, nil)
		}
		return success(req.ID, map[string]any{"session_name": h.tracker.Name()})

	case ActionGetData:
		if h.tracker == nil {
			return failure(req.ID, errNotStarted)
		}
		return success(req.ID, map[string]any{"data": h.tracker.Report()})

	case ActionGetSessions:
		names, err := h.store.List()
		if err != nil {
			return failure(req.ID, err)
		}
		return success(req.ID, map[string]any{"sessions": names})

	case ActionDeleteSession:
		var data sessionName
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return failure(req.ID, fmt.Errorf("decoding %s data: %w", req.Action, err))
		}
		if err := h.store.Delete(data.SessionName); err != nil {
			return failure(req.ID, err)
		}
		return success(req.ID, nil)

	case ActionTabFocused, ActionTabUnfocused, ActionTabClosed:
		var data tabEvent
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return failure(req.ID, fmt.Errorf("decoding %s data: %w", req.Action, err))
		}
		if err := h.tabEvent(req.Action, data); err != nil {
			return failure(req.ID, err)
		}
		return success(req.ID, nil)

	default:
		return failure(req.ID, fmt.Errorf("unknown action %q", req.Action))
	}
}

func (h *Host) tabEvent(action string, data tabEvent) error {
	if h.tracker == nil {
		return errNotStarted
	}
	switch action {
	case ActionTabFocused:
		return h.tracker.TrackFocus(data.URL, data.TabID)
	case ActionTabUnfocused:
		return h.tracker.TrackUnfocus(data.URL, data.TabID)
	default:
		return h.tracker.TrackClose(data.URL, data.TabID)
	}
}

// start loads the named session if it already exists on disk, otherwise
// begins a fresh one. Callers hold h.mu.
func (h *Host) start(name string) error {
	if h.tracker != nil {
		return errAlreadyStarted
	}
	if err := validateSessionName(name); err != nil {
		return err
	}

	var opts []track.Option
	if h.clock != nil {
		opts = append(opts, track.WithClock(h.clock))
	}

	if h.store.Exists(name) {
		snap, err := h.store.Load(name)
		if err != nil {
			return err
		}
		h.tracker = track.FromSnapshot(snap.SessionName, snap.Data, false, opts...)
		h.log.Info("session resumed", "session", name)
		return nil
	}

	h.tracker = track.New(name, opts...)
	h.log.Info("session started", "session", name)
	return nil
}

// stop persists a pruned snapshot and clears the tracker slot. The tracker
// survives a failed save so a retry stays possible. Callers hold h.mu.
func (h *Host) stop() error {
	if h.tracker == nil {
		return errNotStarted
	}
	if err := h.store.Save(h.tracker.Snapshot(false)); err != nil {
		return err
	}
	h.log.Info("session stopped", "session", h.tracker.Name())
	h.tracker = nil
	return nil
}

// persistOnClose saves the active session without instances, same as an
// explicit Stop. Live per-tab continuity is intentionally dropped on a
// graceful disconnect.
func (h *Host) persistOnClose() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tracker == nil {
		return
	}
	if err := h.store.Save(h.tracker.Snapshot(false)); err != nil {
		h.log.Error("persisting session on close", "session", h.tracker.Name(), "err", err)
	}
	h.tracker = nil
}

// persistAndExit saves the active session with instances, so an interrupted
// host can later resume with live tabs intact, then terminates the process.
func (h *Host) persistAndExit() {
	h.mu.Lock()
	if h.tracker != nil {
		if err := h.store.Save(h.tracker.Snapshot(true)); err != nil {
			h.log.Error("persisting session on interrupt", "session", h.tracker.Name(), "err", err)
		}
		h.tracker = nil
	}
	h.mu.Unlock()
	h.exit(0)
}
