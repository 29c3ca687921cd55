package cli

import (
	"context"
	"flag"
	"fmt"
	"midistream/internal/capture"
	"midistream/internal/global"
	"midistream/internal/logctx"
	"os"
)

func CaptureMode(ctx context.Context, commandname string, args []string) {
	var configPath string
	var keyPath string
	var usePassphrase bool

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	commandFlags.StringVar(&configPath, "c", "", "Path to the capture configuration file")
	commandFlags.StringVar(&configPath, "config", "", "Path to the capture configuration file")
	SetKeyArguments(commandFlags, &keyPath, &usePassphrase)

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	if len(args) < 1 {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args[0:])

	// The global logger was created before this FlagSet ran, pick up the
	// parsed verbosity now
	logctx.SetLogLevel(ctx, global.Verbosity)

	jsonCfg, err := capture.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if jsonCfg.KeyFile != "" && keyPath == global.DefaultKeyPath {
		keyPath = jsonCfg.KeyFile
	}
	key, err := ResolveKey(keyPath, usePassphrase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sessionConfig := capture.NewSessionConf(jsonCfg)
	session, err := capture.NewSession(ctx, sessionConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = session.Run(ctx, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running capture: %v\n", err)
		os.Exit(1)
	}
}
