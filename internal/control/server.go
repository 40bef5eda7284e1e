// ABOUTME: WebSocket control server exposing the playback engine
// ABOUTME: Translates JSON commands into Play, SetParam and Free calls
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Warble-Audio/warble-go/pkg/engine"
	"github.com/Warble-Audio/warble-go/pkg/synth"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Config holds control server configuration.
type Config struct {
	Port  int
	Debug bool
}

// Server accepts WebSocket connections and drives an engine on behalf
// of remote clients. One engine is shared across all connections.
type Server struct {
	config Config
	engine *engine.Engine

	upgrader   websocket.Upgrader
	mux        *http.ServeMux
	httpServer *http.Server

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a control server around an existing engine.
func New(config Config, eng *engine.Engine) *Server {
	s := &Server{
		config: config,
		engine: eng,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Designed for trusted local networks only.
				return true
			},
		},
		mux:      http.NewServeMux(),
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc("/warble", s.handleWebSocket)
	return s
}

// Start runs the HTTP server until Stop is called or the listener
// fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Control server listening on %s", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		log.Printf("Control server shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	s.wg.Wait()
	log.Printf("Control server stopped")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop signals the server to shut down.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// handleWebSocket upgrades the connection and serves commands on it.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	log.Printf("New control connection from %s", r.RemoteAddr)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.handleConnection(conn)
	}()
}

// handleConnection runs a request/response loop for one client.
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		resp := s.HandleMessage(data)
		out, err := json.Marshal(resp)
		if err != nil {
			log.Printf("Error marshaling response: %v", err)
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			log.Printf("Error writing response: %v", err)
			return
		}
	}
}

// HandleMessage dispatches one command frame and returns the response
// message.
func (s *Server) HandleMessage(data []byte) Message {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return errorMessage(fmt.Sprintf("invalid message: %v", err))
	}

	if s.config.Debug {
		log.Printf("[DEBUG] Control command: %s", msg.Type)
	}

	switch msg.Type {
	case "voice/play":
		return s.handlePlay(msg.Payload)
	case "voice/free":
		return s.handleFree(msg.Payload)
	case "param/set":
		return s.handleParamSet(msg.Payload)
	case "status/get":
		return s.handleStatus()
	default:
		return errorMessage(fmt.Sprintf("unknown message type: %s", msg.Type))
	}
}

func (s *Server) handlePlay(payload interface{}) Message {
	var req PlayRequest
	if err := decodePayload(payload, &req); err != nil {
		return errorMessage(err.Error())
	}

	gc := synth.GraphConfig{
		FrequencyHz:     req.FrequencyHz,
		DelaySeconds:    req.DelaySeconds,
		MaxDelaySeconds: req.MaxDelaySeconds,
		OutputGain:      req.OutputGain,
	}
	if req.Wave != "" {
		gc.Wave = synth.ParseWaveform(req.Wave)
	}
	if req.Comb != nil {
		gc.Comb = &synth.CombConfig{
			Type:         synth.ParseFilterType(req.Comb.Type),
			DelaySeconds: req.Comb.DelaySeconds,
			Gain:         req.Comb.Gain,
		}
	}
	if req.Vibrato {
		gc.EnableVibrato = true
		gc.ModFreqHz = req.ModFreqHz
		gc.ModDepthSeconds = req.ModDepthSeconds
	}

	h, err := s.engine.Play(gc)
	if err != nil {
		return errorMessage(err.Error())
	}
	return Message{Type: "voice/started", Payload: PlayResponse{Handle: h.ID().String()}}
}

func (s *Server) handleFree(payload interface{}) Message {
	var req FreeRequest
	if err := decodePayload(payload, &req); err != nil {
		return errorMessage(err.Error())
	}

	h, err := s.lookup(req.Handle)
	if err != nil {
		return errorMessage(err.Error())
	}
	if err := h.Free(); err != nil {
		return errorMessage(err.Error())
	}
	return Message{Type: "voice/freed", Payload: PlayResponse{Handle: req.Handle}}
}

func (s *Server) handleParamSet(payload interface{}) Message {
	var req ParamRequest
	if err := decodePayload(payload, &req); err != nil {
		return errorMessage(err.Error())
	}

	h, err := s.lookup(req.Handle)
	if err != nil {
		return errorMessage(err.Error())
	}
	if err := h.SetParam(req.Name, req.Value); err != nil {
		return errorMessage(err.Error())
	}
	return Message{Type: "param/ok", Payload: ParamRequest{
		Handle: req.Handle,
		Name:   req.Name,
		Value:  h.Param(req.Name),
	}}
}

func (s *Server) handleStatus() Message {
	handles := s.engine.Handles()
	voices := make([]VoiceStatus, 0, len(handles))
	for _, h := range handles {
		params := make(map[string]float64)
		for _, name := range h.ParamNames() {
			params[name] = h.Param(name)
		}
		voices = append(voices, VoiceStatus{
			Handle:    h.ID().String(),
			State:     h.State().String(),
			Blocks:    h.Blocks(),
			Underruns: h.Underruns(),
			Params:    params,
		})
	}
	return Message{Type: "status", Payload: StatusResponse{Voices: voices}}
}

// lookup resolves a handle id string to a live handle.
func (s *Server) lookup(id string) (*engine.Handle, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid handle id %q: %w", id, err)
	}
	h, ok := s.engine.Handle(uid)
	if !ok {
		return nil, fmt.Errorf("no such handle: %s", id)
	}
	return h, nil
}

// decodePayload re-marshals the generic payload into a typed request.
func decodePayload(payload interface{}, dst interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshaling payload: %w", err)
	}
	return nil
}

func errorMessage(text string) Message {
	return Message{Type: "error", Payload: ErrorResponse{Error: text}}
}
