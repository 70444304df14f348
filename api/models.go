package api

import "time"

// SessionCreateRequest is the body of POST /sessions: the ELF image
// to load and the predictor variant to simulate branches with.
type SessionCreateRequest struct {
	ELFPath   string `json:"elfPath"`
	Predictor string `json:"predictor,omitempty"` // predictor.Type string; empty means "none"
	Args      []string `json:"args,omitempty"`
}

// SessionCreateResponse is returned after a session is created and its
// image loaded.
type SessionCreateResponse struct {
	SessionID  string    `json:"sessionId"`
	EntryPoint uint32    `json:"entryPoint"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RunRequest optionally bounds a run by an instruction budget, so a runaway
// guest program can't hang the API goroutine forever.
type RunRequest struct {
	MaxInstructions uint64 `json:"maxInstructions,omitempty"`
}

// StateResponse reports the full observable machine state, used by both
// GET /sessions/{id}/state and the run/step responses.
type StateResponse struct {
	SessionID    string           `json:"sessionId"`
	Registers    [32]uint32       `json:"registers"`
	PC           uint32           `json:"pc"`
	Halted       bool             `json:"halted"`
	ExitCode     int32            `json:"exitCode"`
	Instructions uint64           `json:"instructions"`
	Predictor    *PredictorReport `json:"predictor,omitempty"`
}

// PredictorReport is the branch-prediction statistics block attached to a
// state response when the session has a predictor configured.
type PredictorReport struct {
	Name               string  `json:"name"`
	TotalBranches      uint64  `json:"totalBranches"`
	Mispredictions     uint64  `json:"mispredictions"`
	MispredictionRate  float64 `json:"mispredictionRate"`
	RateAvailable      bool    `json:"rateAvailable"`
}

// ErrorResponse is the JSON body written for any non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
