package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different control commands
type CommandType string

const (
	CommandGetStatus CommandType = "GET_STATUS"
	CommandInvoke    CommandType = "INVOKE"
	CommandQuit      CommandType = "QUIT"
)

// Request represents a control request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents a control response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	UptimeSeconds    int64 `json:"uptime_seconds"`
	WindowCount      int   `json:"window_count"`
	PendingCallbacks int   `json:"pending_callbacks"`
}

// InvokePayload represents the payload for the INVOKE command
type InvokePayload struct {
	Command string `json:"command"`
}

// QuitPayload represents the payload for the QUIT command
type QuitPayload struct {
	Code int `json:"code"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
