package global

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgVersion string = "v0.3.0"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	DefaultKeyPath    string = "midistream.key"
	DefaultMaxSources int    = 8

	// Dispatch queue boundaries
	DefaultMinQueueSize int = 256
	DefaultMaxQueueSize int = 4096

	// Per-endpoint egress queue depth
	DefaultEndpointQueueSize int = 64

	// Namespacing Name Components
	NSCLI      string = "CLI"
	NSCapture  string = "Capture"
	NSRouter   string = "Router"
	NSDecoder  string = "Decoder"
	NSEgress   string = "Egress"
	NSQueue    string = "Queue"
	NSDispatch string = "Dispatch"
	NSSource   string = "Source"
	NSEndpoint string = "Endpoint"
	NSVault    string = "Vault"
	NSTest     string = "Test"
)
