package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/lookbusy1344/riscv32-sim/loader"
	"github.com/lookbusy1344/riscv32-sim/predictor"
	"github.com/lookbusy1344/riscv32-sim/vm"
)

var (
	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when trying to create a session with an existing ID
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session wraps a loaded machine with the mutex that serializes run/step
// requests against it. Only one goroutine may advance the machine at a
// time, per the single-threaded driver invariant; a GET state request takes
// the same mutex, so it waits for an in-progress run or step to finish.
type Session struct {
	ID         string
	Machine    *vm.Machine
	Program    loader.ProgramInfo
	CreatedAt  time.Time
	mu         sync.Mutex
}

// SessionManager manages multiple simulation sessions
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates a new session manager
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession loads the requested ELF image into a fresh machine and
// registers a session for it.
func (sm *SessionManager) CreateSession(req SessionCreateRequest) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	machine := vm.NewMachine()

	if req.Predictor != "" {
		pred, err := predictor.New(predictor.Type(req.Predictor))
		if err != nil {
			return nil, err
		}
		machine.Predictor = pred
	}

	if sm.broadcaster != nil {
		machine.OutputWriter = NewEventWriter(sm.broadcaster, sessionID, "stdout")
	}

	info, err := loader.Load(machine, req.ELFPath)
	if err != nil {
		return nil, err
	}

	loader.PassArgsToProgram(machine, req.Args)

	session := &Session{
		ID:        sessionID,
		Machine:   machine,
		Program:   info,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; exists {
		return nil, ErrSessionAlreadyExists
	}

	sm.sessions[sessionID] = session
	return session, nil
}

// GetSession retrieves a session by ID
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// DestroySession removes a session by ID
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}

	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns a list of all session IDs
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// generateSessionID generates a unique session ID
func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// state snapshots the session's machine into a StateResponse, including a
// predictor report when one is configured.
func (s *Session) state() StateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StateResponse{
		SessionID:    s.ID,
		PC:           s.Machine.CPU.PC,
		Halted:       s.Machine.Halted,
		ExitCode:     s.Machine.ExitCode,
		Instructions: s.Machine.Stats.Insns,
	}
	for i := 0; i < 32; i++ {
		resp.Registers[i] = s.Machine.CPU.GetRegister(i)
	}

	if s.Machine.Predictor != nil {
		stats := s.Machine.Predictor.Report()
		rate, ok := stats.MispredictionRate()
		resp.Predictor = &PredictorReport{
			Name:              s.Machine.Predictor.Name(),
			TotalBranches:     stats.TotalBranches,
			Mispredictions:    stats.Mispredictions,
			MispredictionRate: rate,
			RateAvailable:     ok,
		}
	}

	return resp
}
