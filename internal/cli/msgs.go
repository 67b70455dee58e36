package cli

// Short messages (one-liners)
const (
	MsgRootShort = "Stage packaged application bundles"
	MsgRootLong  = `appstage assembles distributable application bundles: it moves a runtime
template into place, copies your application into it through an ignore
filter, prunes development dependencies, packs the payload and drops the
finished bundle into the output directory.

Configuration is read from .appstage.toml (or .appstage.yaml) in the
source directory; every setting can be overridden with a flag or an
APPSTAGE_* environment variable.`

	MsgStageShort   = "Stage a bundle for one platform and architecture"
	MsgStageLong    = `Stage runs the full staging sequence for a single target. The source
directory defaults to the current directory. Flags override the project
configuration.`
	MsgStageExample = `  # Stage the app in the current directory for the host platform
  appstage stage

  # Cross-target with an archive
  appstage stage --platform darwin --arch arm64 --archive ./app`

	MsgGenConfigShort = "Print a starter configuration file"
	MsgGenConfigLong  = `Gen-config prints a commented configuration file holding every setting
at its default. Redirect it to .appstage.toml in your source directory
and uncomment what you need.`

	MsgCompletionShort = "Generate shell completion script"
	MsgVersionShort    = "Print version information"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat  = "Output format: auto, term, text or json"
)

// MsgUsageTemplate styles section headers in cobra's usage output.
const MsgUsageTemplate = `{{boldUpper "Usage"}}:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "Aliases"}}:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "Examples"}}:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{boldUpper "Available Commands"}}:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{boldUpper "Additional Commands"}}:{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "Flags"}}:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "Global Flags"}}:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
