package cli

import "midistream/internal/global"

func DefineOptions() (cmdOpts *global.CommandSet) {
	// Root level
	root := &global.CommandSet{
		Description:     "MIDIStream",
		FullDescription: "  Decodes, routes, and securely stores multi-source MIDI byte streams",
		CommandName:     RootCLICommand,
		ChildCommands:   make(map[string]*global.CommandSet),
	}

	// Capturing
	root.ChildCommands["capture"] = &global.CommandSet{
		CommandName:     "capture",
		Description:     "Capture MIDI Streams",
		FullDescription: "Reads raw MIDI bytes from configured inputs, decodes and routes them, and seals the serialized result into an encrypted container",
		ChildCommands:   nil,
	}

	// Sealing arbitrary payloads
	root.ChildCommands["seal"] = &global.CommandSet{
		CommandName:     "seal",
		Description:     "Seal a File",
		FullDescription: "Encrypts a file into an authenticated container",
		ChildCommands:   nil,
	}

	// Opening sealed payloads
	root.ChildCommands["open"] = &global.CommandSet{
		CommandName:     "open",
		Description:     "Open a Sealed File",
		FullDescription: "Decrypts and verifies an authenticated container, refusing any tampered input",
		ChildCommands:   nil,
	}

	// Key generation
	root.ChildCommands["keygen"] = &global.CommandSet{
		CommandName:     "keygen",
		Description:     "Generate a Key",
		FullDescription: "Creates a new random 256-bit key (prints to stdout)",
		ChildCommands:   nil,
	}

	// Version Info
	root.ChildCommands["version"] = &global.CommandSet{
		CommandName:     "version",
		Description:     "Show Version Information",
		FullDescription: "Display meta information about program",
	}

	cmdOpts = root
	return
}
