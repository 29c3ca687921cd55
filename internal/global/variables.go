package global

var (
	CmdOpts   *CommandSet // Holds CLI command definition
	Verbosity int         // Requested log level for the whole program
)
