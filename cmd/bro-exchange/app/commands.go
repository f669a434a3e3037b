// Package app provides the commands of the bro-exchange CLI.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bro-exchange/bro-exchange/internal/config"
	"github.com/bro-exchange/bro-exchange/pkg/versions"
)

var rootCmd = &cobra.Command{
	Use:               "bro-exchange",
	DisableAutoGenTag: true,
	Short:             "Exchange sourcedocuments with the BRO bronhouderportaal",
	Long: `bro-exchange generates GMW, GMN, GLD and FRD request documents, validates and delivers
them through the bronhouderportaal and looks up the resulting deliveries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			slog.Error("Error displaying help", "error", err)
		}
	},
}

// persistentFlags maps root flags onto the config keys they override
var persistentFlags = []struct {
	name   string
	key    string
	usage  string
	isBool bool
}{
	{name: "config", key: "config", usage: "Path to configuration file (YAML format)"},
	{name: "state-dir", key: config.KeyStateDir, usage: "Directory holding delivery records"},
	{name: "user", key: config.KeyPortalUser, usage: "Bronhouderportaal user"},
	{name: "api", key: config.KeyPortalAPI, usage: "Bronhouderportaal API version (v1 or v2)"},
	{name: "project-id", key: config.KeyPortalProjectID, usage: "Project id, required for API v2"},
	{name: "base-url", key: config.KeyPortalBaseURL, usage: "Override the bronhouderportaal API root"},
	{name: "demo", key: config.KeyPortalDemo, usage: "Use the demo environment", isBool: true},
}

// NewRootCmd creates a new root command for bro-exchange. --debug lowers level to debug.
func NewRootCmd(level *slog.LevelVar) *cobra.Command {
	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		slog.Error("Error binding debug flag", "error", err)
	}

	for _, f := range persistentFlags {
		if f.isBool {
			rootCmd.PersistentFlags().Bool(f.name, false, f.usage)
		} else {
			rootCmd.PersistentFlags().String(f.name, "", f.usage)
		}
		if err := viper.BindPFlag(f.key, rootCmd.PersistentFlags().Lookup(f.name)); err != nil {
			slog.Error("Error binding flag", "flag", f.name, "error", err)
		}
	}

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if viper.GetBool("debug") && level != nil {
			level.Set(slog.LevelDebug)
		}
	}

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(deliverCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sourcedocCmd)
	rootCmd.AddCommand(gldCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			slog.Error("Error retrieving format flag", "error", err)
			return
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				slog.Error("Error formatting version info as JSON", "error", err)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
		} else {
			slog.Info("bro-exchange version",
				"version", info.Version,
				"commit", info.Commit,
				"built", info.BuildDate,
				"go", info.GoVersion,
				"platform", info.Platform)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}
