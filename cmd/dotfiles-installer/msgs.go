package main

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort    = "Link a dotfiles repository into your home directory"
	MsgInstallShort = "Back up, verify and link every managed file"
	MsgStatusShort  = "Show what install would change"
	MsgConfigShort  = "Print the effective configuration"
	MsgVersionShort = "Print version information"

	MsgInstallDone = "Installation finished"
	MsgSeeLogFile  = "See the log file at %s for details\n"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v DEBUG, -vv TRACE)"
	MsgFlagQuiet      = "Decrease verbosity (-q WARN, -qq ERROR, -qqq OFF)"
	MsgFlagRepo       = "Use the repository containing this path instead of the one containing the binary"
	MsgFlagHome       = "Install into this directory instead of the current user's home"
	MsgFlagNoColor    = "Disable colored output"
	MsgFlagLogDir     = "Write the log file to this directory"
	MsgFlagNoCheckout = "Do not check out git submodules"
	MsgFlagNoScripts  = "Do not run the install scripts"
	MsgFlagFormat     = "Output format (text, yaml)"
	MsgFlagDefaults   = "Print the built-in defaults instead"

	// Error messages
	MsgErrNoCommand = "no command specified"
	MsgErrFormat    = "unknown output format %q, use text or yaml"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimRight(msgInstallExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
