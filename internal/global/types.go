package global

type CommandSet struct {
	CommandName     string                 // Exact name of cli command
	UsageOption     string                 // Expected command value in usage top line
	Description     string                 // Short text displayed on parent command
	FullDescription string                 // Long text displayed on current command
	ChildCommands   map[string]*CommandSet // Available subcommands
}

type CtxKey string

// Capture session settings (CLI surface, not part of the core contract)

type CaptureConfig struct {
	Inputs     []CaptureInput `json:"inputs"`
	OutputPath string         `json:"outputPath"`
	KeyFile    string         `json:"keyFile,omitempty"`
	MaxSources int            `json:"maxSources,omitempty"`
	Queue      QueueConfig    `json:"queue,omitempty"`
}

type CaptureInput struct {
	Path        string `json:"path"`
	DisplayName string `json:"displayName,omitempty"`
}

type QueueConfig struct {
	MinSize int `json:"minSize,omitempty"`
	MaxSize int `json:"maxSize,omitempty"`
}
