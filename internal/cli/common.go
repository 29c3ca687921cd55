package cli

import (
	"flag"
	"midistream/internal/global"
)

func SetGlobalArguments(fs *flag.FlagSet) (requestedLogLevel *int) {
	fs.IntVar(&global.Verbosity, "v", 1, "Increase detailed progress messages (Higher is more verbose) <0...5>")
	fs.IntVar(&global.Verbosity, "verbosity", 1, "Increase detailed progress messages (Higher is more verbose) <0...5>")
	requestedLogLevel = &global.Verbosity
	return
}

func SetKeyArguments(fs *flag.FlagSet, keyPath *string, usePassphrase *bool) {
	fs.StringVar(keyPath, "k", global.DefaultKeyPath, "Path to the base64 encoded key file")
	fs.StringVar(keyPath, "key", global.DefaultKeyPath, "Path to the base64 encoded key file")
	fs.BoolVar(usePassphrase, "p", false, "Derive the key from an interactively entered passphrase instead of a key file")
	fs.BoolVar(usePassphrase, "passphrase", false, "Derive the key from an interactively entered passphrase instead of a key file")
}
