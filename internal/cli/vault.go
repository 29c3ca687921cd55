package cli

import (
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"midistream/internal/global"
	"midistream/pkg/container"
	"os"
)

// Encrypts a file into an authenticated container
func SealMode(commandname string, args []string) {
	var inputPath string
	var outputPath string
	var keyPath string
	var usePassphrase bool

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	commandFlags.StringVar(&inputPath, "i", "", "Path to the file to seal")
	commandFlags.StringVar(&inputPath, "input", "", "Path to the file to seal")
	commandFlags.StringVar(&outputPath, "o", "", "Path for the sealed container")
	commandFlags.StringVar(&outputPath, "output", "", "Path for the sealed container")
	SetKeyArguments(commandFlags, &keyPath, &usePassphrase)

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	if len(args) < 1 {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args[0:])

	if inputPath == "" || outputPath == "" {
		fmt.Fprint(os.Stderr, "Error: input and output paths are required\n")
		os.Exit(1)
	}

	key, err := ResolveKey(keyPath, usePassphrase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	plaintext, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}

	blob, err := container.SealBytes(plaintext, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sealing file: %v\n", err)
		os.Exit(1)
	}

	err = os.WriteFile(outputPath, blob, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing sealed container: %v\n", err)
		os.Exit(1)
	}
}

// Decrypts and verifies an authenticated container
func OpenMode(commandname string, args []string) {
	var inputPath string
	var outputPath string
	var keyPath string
	var usePassphrase bool

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	commandFlags.StringVar(&inputPath, "i", "", "Path to the sealed container")
	commandFlags.StringVar(&inputPath, "input", "", "Path to the sealed container")
	commandFlags.StringVar(&outputPath, "o", "", "Path for the recovered plaintext")
	commandFlags.StringVar(&outputPath, "output", "", "Path for the recovered plaintext")
	SetKeyArguments(commandFlags, &keyPath, &usePassphrase)

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	if len(args) < 1 {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args[0:])

	if inputPath == "" || outputPath == "" {
		fmt.Fprint(os.Stderr, "Error: input and output paths are required\n")
		os.Exit(1)
	}

	key, err := ResolveKey(keyPath, usePassphrase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	blob, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading sealed container: %v\n", err)
		os.Exit(1)
	}

	plaintext, err := container.OpenBytes(blob, key)
	if err != nil {
		if errors.Is(err, container.ErrAuthentication) {
			fmt.Fprint(os.Stderr, "Error: container failed authentication, refusing to emit output\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error opening container: %v\n", err)
		}
		os.Exit(1)
	}

	err = os.WriteFile(outputPath, plaintext, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
}

// Creates a new random key and prints it base64 encoded
func KeygenMode(commandname string, args []string) {
	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	commandFlags.Parse(args[0:])

	key, err := container.NewKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(base64.StdEncoding.EncodeToString(key))
}
