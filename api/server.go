// Package api exposes the manual control surface and observability over
// HTTP: the current animation state, named control events, mood history,
// and a server-sent-events stream of per-frame render states.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/banshee-data/roboeyes/db"
	"github.com/banshee-data/roboeyes/internal/eyes"
)

// Snapshot is the latest frame plus the sensor context it was computed
// from.
type Snapshot struct {
	Mood       string           `json:"mood"`
	DistanceCM float64          `json:"distance_cm"`
	Simulated  bool             `json:"simulated"`
	Frame      eyes.RenderState `json:"frame"`
}

// Commander is the write surface of the serial mux: raw command lines to
// the sensor firmware.
type Commander interface {
	SendCommand(string) error
}

// Server serves the control and observability endpoints. The frame loop
// publishes a snapshot per frame; manual events flow back over the events
// channel and are picked up at the next tick boundary.
type Server struct {
	db        *db.DB
	events    chan<- eyes.Event
	commander Commander

	mu          sync.Mutex
	latest      Snapshot
	hasSnapshot bool
	subscribers map[string]chan Snapshot
}

// NewServer creates a Server publishing manual events to the given channel.
// A nil commander means no serial channel is attached (simulation mode).
func NewServer(database *db.DB, events chan<- eyes.Event, commander Commander) *Server {
	return &Server{
		db:          database,
		events:      events,
		commander:   commander,
		subscribers: make(map[string]chan Snapshot),
	}
}

// Publish records the frame's snapshot and fans it out to stream
// subscribers. Slow subscribers miss frames rather than stalling the loop.
func (s *Server) Publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = snap
	s.hasSnapshot = true
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Server) subscribe() (string, chan Snapshot) {
	id := uuid.NewString()
	ch := make(chan Snapshot, 4)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[id] = ch
	return id, ch
}

func (s *Server) unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
	}
}

// ServeMux returns the API routes.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/state", s.stateHandler)
	mux.HandleFunc("/event", s.eventHandler)
	mux.HandleFunc("/command", s.commandHandler)
	mux.HandleFunc("/moods", s.moodsHandler)
	mux.HandleFunc("/observations", s.observationsHandler)
	mux.HandleFunc("/stream", s.streamHandler)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("roboeyes animation server"))
}

func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	snap, ok := s.latest, s.hasSnapshot
	s.mu.Unlock()
	if !ok {
		http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// eventHandler accepts a named control event (a mood name or one of blink,
// wink-left, wink-right, laugh, confuse, none) and queues it for the next
// tick. If the loop's queue is full the event is dropped; a gesture that
// cannot run is dropped anyway.
func (s *Server) eventHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.FormValue("event")
	ev, ok := eyes.ParseEvent(name)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown event %q", name), http.StatusBadRequest)
		return
	}

	select {
	case s.events <- ev:
	default:
	}
	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintf(w, "queued event %q", name)
}

// commandHandler forwards a raw command line to the sensor firmware.
func (s *Server) commandHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.commander == nil {
		http.Error(w, "no serial channel attached", http.StatusServiceUnavailable)
		return
	}

	command := r.FormValue("command")
	if command == "" {
		http.Error(w, "command is required", http.StatusBadRequest)
		return
	}

	if err := s.commander.SendCommand(command); err != nil {
		http.Error(w, fmt.Sprintf("failed to send command: %v", err), http.StatusInternalServerError)
		return
	}
	fmt.Fprintf(w, "sent command %q", command)
}

func (s *Server) moodsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	changes, err := s.db.RecentMoodChanges(100)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to retrieve mood history: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(changes)
}

func (s *Server) observationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	obs, err := s.db.RecentObservations(500)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to retrieve observations: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(obs)
}

// streamHandler issues server-sent events with one JSON snapshot per
// rendered frame.
func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, ch := s.subscribe()
	defer s.unsubscribe(id)

	// initial ping to establish the connection
	w.Write([]byte(": ping\n\n"))
	flusher.Flush()

	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(snap)
			if err != nil {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
