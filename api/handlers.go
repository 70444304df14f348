package api

import "net/http"

// handleCreateSession handles POST /sessions: loads an ELF image into a
// fresh machine and returns its session ID.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.ELFPath == "" {
		writeError(w, http.StatusBadRequest, "elfPath is required")
		return
	}

	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	debugLog("session %s created from %s", session.ID, req.ELFPath)

	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID:  session.ID,
		EntryPoint: session.Program.EntryPoint,
		CreatedAt:  session.CreatedAt,
	})
}

// handleDestroySession handles DELETE /sessions/{id}.
func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// handleGetSessionState handles GET /sessions/{id} and GET /sessions/{id}/state.
func (s *Server) handleGetSessionState(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, session.state())
}

// handleStep handles POST /sessions/{id}/step: executes exactly one
// instruction and returns the resulting state.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	session.mu.Lock()
	_, stepErr := session.Machine.Step()
	session.mu.Unlock()

	if stepErr != nil {
		s.broadcaster.BroadcastExecutionEvent(sessionID, "error", map[string]interface{}{"message": stepErr.Error()})
		writeError(w, http.StatusInternalServerError, stepErr.Error())
		return
	}

	s.broadcaster.BroadcastState(sessionID, map[string]interface{}{"pc": session.Machine.CPU.PC})
	writeJSON(w, http.StatusOK, session.state())
}

// handleRun handles POST /sessions/{id}/run: runs to completion or until
// maxInstructions retired instructions have executed, whichever is first.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req RunRequest
	_ = readJSON(r, &req) // empty body means "run until halted"

	session.mu.Lock()
	var runErr error
	executed := uint64(0)
	for !session.Machine.Halted {
		if req.MaxInstructions > 0 && executed >= req.MaxInstructions {
			break
		}
		var cont bool
		cont, runErr = session.Machine.Step()
		executed++
		if runErr != nil || !cont {
			break
		}
	}
	session.mu.Unlock()

	if runErr != nil {
		s.broadcaster.BroadcastExecutionEvent(sessionID, "error", map[string]interface{}{"message": runErr.Error()})
		writeError(w, http.StatusInternalServerError, runErr.Error())
		return
	}

	eventName := "halted"
	if !session.Machine.Halted {
		eventName = "paused"
	}
	s.broadcaster.BroadcastExecutionEvent(sessionID, eventName, map[string]interface{}{
		"pc": session.Machine.CPU.PC,
	})

	writeJSON(w, http.StatusOK, session.state())
}
