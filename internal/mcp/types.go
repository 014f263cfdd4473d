package mcp

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	UptimeSeconds    int64 `json:"uptime_seconds"`
	WindowCount      int   `json:"window_count"`
	PendingCallbacks int   `json:"pending_callbacks"`
}

// InvokeCommandInput is the input for the invoke_command tool.
type InvokeCommandInput struct {
	Command string `json:"command" jsonschema:"required,The command name to invoke (e.g. dialog, refresh, quit)"`
}

// InvokeCommandOutput is the output for the invoke_command tool.
type InvokeCommandOutput struct {
	Command string `json:"command"`
	Invoked bool   `json:"invoked"`
}

// QuitInput is the input for the quit tool.
type QuitInput struct {
	Code int `json:"code,omitempty" jsonschema:"Exit code for the message loop (default: 0)"`
}

// QuitOutput is the output for the quit tool.
type QuitOutput struct {
	Code int `json:"code"`
}
