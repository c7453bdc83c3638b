package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata variables, set by -ldflags at compile time.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuiltAt   string `json:"built_at"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func currentVersion() versionInfo {
	return versionInfo{
		Version:   Version,
		Commit:    CommitSHA,
		BuiltAt:   BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersion()
		if mustGetBool(cmd, "json") {
			return outputJSON(info)
		}
		fmt.Printf("photo-grid %s (%s, %s)\n", info.Version, info.GoVersion, info.Platform)
		fmt.Printf("  commit %s, built %s\n", info.Commit, info.BuiltAt)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Print build information as JSON")
	rootCmd.AddCommand(versionCmd)
}
