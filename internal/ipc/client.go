package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/winx/internal/runtimepath"
)

// Client handles control communication with a running instance
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new control client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    10 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w (is the application running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("application error: %s", resp.Error)
	}

	return &resp, nil
}

// GetStatus retrieves the running instance's status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// Invoke asks the running instance to run a named command on its UI
// thread
func (c *Client) Invoke(command string) error {
	payload, err := json.Marshal(InvokePayload{Command: command})
	if err != nil {
		return fmt.Errorf("failed to marshal invoke payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandInvoke, Payload: payload})
	return err
}

// Quit asks the running instance to exit with the given code
func (c *Client) Quit(code int) error {
	payload, err := json.Marshal(QuitPayload{Code: code})
	if err != nil {
		return fmt.Errorf("failed to marshal quit payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandQuit, Payload: payload})
	return err
}
