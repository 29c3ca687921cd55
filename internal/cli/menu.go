package cli

import (
	"flag"
	"fmt"
	"midistream/internal/global"
	"os"
	"sort"
	"strings"
)

const (
	RootCLICommand  string = "root"
	helpMenuTrailer string = `
MIDIStream home page: <https://github.com/midistream/midistream>
`
)

// Full standardized help menu (wraps option printer as well)
func PrintHelpMenu(fs *flag.FlagSet, command string, rootCmd *global.CommandSet) {
	const baseIndentSpaces = 2

	var curCmdSet *global.CommandSet

	// Find the command in tree
	if command == "" || command == RootCLICommand {
		curCmdSet = rootCmd
	} else if cmd, ok := rootCmd.ChildCommands[command]; ok {
		curCmdSet = cmd
	} else {
		fmt.Printf("Unknown command: %s\n", command)
		return
	}

	// Build full usage path
	usageParts := []string{os.Args[0]}
	if curCmdSet != rootCmd {
		usageParts = append(usageParts, curCmdSet.CommandName)
	}
	if len(curCmdSet.ChildCommands) > 0 {
		usageParts = append(usageParts, "[subcommand]")
	}
	if curCmdSet.UsageOption != "" {
		usageParts = append(usageParts, curCmdSet.UsageOption)
	}

	fmt.Printf("Usage: %s\n\n", strings.Join(usageParts, " "))

	// Description
	if curCmdSet == rootCmd {
		fmt.Println(curCmdSet.Description)
		fmt.Println(curCmdSet.FullDescription)
		fmt.Println()
	} else if curCmdSet.FullDescription != "" {
		fmt.Println("  Description:")
		fmt.Printf("    %s\n\n", curCmdSet.FullDescription)
	}

	// Subcommands
	if len(curCmdSet.ChildCommands) > 0 {
		indent := strings.Repeat(" ", baseIndentSpaces)
		fmt.Printf("%sSubcommands:\n", indent)

		// Compute max length for padding
		maxLen := 0
		subNames := make([]string, 0, len(curCmdSet.ChildCommands))
		for name := range curCmdSet.ChildCommands {
			subNames = append(subNames, name)
			if len(name) > maxLen {
				maxLen = len(name)
			}
		}
		sort.Strings(subNames)

		cmdIndent := strings.Repeat(" ", baseIndentSpaces+2)
		for _, name := range subNames {
			sub := curCmdSet.ChildCommands[name]
			padding := strings.Repeat(" ", maxLen-len(name)+2)
			fmt.Printf("%s%s%s - %s\n", cmdIndent, name, padding, sub.Description)
		}
		fmt.Println()
	}

	// Flags
	printFlagOptions(fs, baseIndentSpaces)

	// Top-level trailer
	if curCmdSet == rootCmd {
		fmt.Print(helpMenuTrailer)
	}
}

// Custom printer to deduplicate short/long usages and indent automatically
func printFlagOptions(fs *flag.FlagSet, baseIndentSpaces int) {
	const shortLongArgJoiner string = ", " // like "  -t[, ]--test  Some usage text"
	const argToUsageSpaces int = 2         // like "  -t, --test[  ]Some usage text"

	type optInfo struct {
		names      []string
		usage      string
		defaultVal string
	}

	// Deduplicate short/long pairs by exact usage text match
	seen := make(map[string]*optInfo)
	fs.VisitAll(func(arg *flag.Flag) {
		formatted := "--" + arg.Name
		if len(arg.Name) == 1 {
			formatted = "-" + arg.Name
		}

		opt, seenUsage := seen[arg.Usage]
		if seenUsage {
			opt.names = append(opt.names, formatted)
			return
		}
		seen[arg.Usage] = &optInfo{
			names:      []string{formatted},
			usage:      arg.Usage,
			defaultVal: arg.DefValue,
		}
	})

	opts := make([]*optInfo, 0, len(seen))
	for _, opt := range seen {
		// Short args come before long args
		sort.Slice(opt.names, func(indexA, indexB int) bool {
			return len(opt.names[indexA]) < len(opt.names[indexB])
		})
		opts = append(opts, opt)
	}

	sort.Slice(opts, func(indexA, indexB int) bool {
		return strings.ToLower(opts[indexA].names[0]) < strings.ToLower(opts[indexB].names[0])
	})

	// Calculate max length flags for alignment
	maxLen := 0
	for _, opt := range opts {
		left := strings.Join(opt.names, shortLongArgJoiner)
		if len(left) > maxLen {
			maxLen = len(left)
		}
	}

	// Print option list
	fmt.Printf("%sOptions:\n", strings.Repeat(" ", baseIndentSpaces))
	for _, opt := range opts {
		left := strings.Join(opt.names, shortLongArgJoiner)
		padding := strings.Repeat(" ", maxLen-len(left)+argToUsageSpaces)

		// Skip printing any "empty" defaults
		desc := opt.usage
		if opt.defaultVal != "" && opt.defaultVal != "false" && opt.defaultVal != "0" {
			desc += fmt.Sprintf(" [default: %s]", opt.defaultVal)
		}

		fmt.Printf("%s%s%s%s\n", strings.Repeat(" ", baseIndentSpaces), left, padding, desc)
	}
}
