package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"intlab/rpncalc/pkg/telemetry/health"
)

// Build metadata, overridden with -ldflags "-X main.Version=...".
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionFlags struct {
	short bool
	json  bool
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the rpncalc version with its commit, build date and toolchain.

--json prints the same document the server returns from GET /version.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		info := health.VersionInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
			GoVersion: runtime.Version(),
		}

		switch {
		case versionFlags.short:
			_, err := fmt.Fprintln(out, info.Version)
			return err
		case versionFlags.json:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		_, err := fmt.Fprintf(out, "rpncalc %s\n  commit:     %s\n  built:      %s\n  Go Version: %s (%s/%s)\n",
			info.Version, info.Commit, info.BuildTime, info.GoVersion, runtime.GOOS, runtime.GOARCH)
		return err
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionFlags.short, "short", false, "print only the version number")
	versionCmd.Flags().BoolVar(&versionFlags.json, "json", false, "print version information as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
	rootCmd.AddCommand(versionCmd)
}
