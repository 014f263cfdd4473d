package config

// Default returns the built-in configuration. It is always valid and is
// what the user's file is merged over.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Socket: SocketConfig{Enabled: true},
		Watchdog: WatchdogConfig{
			Enabled:         true,
			IntervalSeconds: 30,
			StallSeconds:    5,
		},
		Window: WindowConfig{
			Title:  "winx",
			Width:  640,
			Height: 480,
		},
		Accelerators: []Accelerator{
			{Keys: "Control-q", Command: "quit"},
			{Keys: "Control-d", Command: "dialog"},
			{Keys: "Control-r", Command: "refresh"},
		},
	}
}
