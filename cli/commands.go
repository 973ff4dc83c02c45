package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Verbose   bool   `short:"v" help:"Log debug output to stderr."`
	Config    string `type:"path" help:"Settings file (default: nearest mot.toml)."`
	Color     string `help:"When to color output: auto, always or never (default: from settings, else auto)."`
	Jobs      int    `help:"Files to parse concurrently (default: from settings, else number of CPUs)."`
}

type Commands struct {
	Globals

	Check  CheckCmd  `cmd:"" help:"Parse mot files and report syntax errors."`
	Format FormatCmd `cmd:"" help:"Print a mot file in canonical form."`
	Watch  WatchCmd  `cmd:"" help:"Check mot files again whenever they change."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for debugging mot files."`
}
