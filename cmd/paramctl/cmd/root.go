package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:           "paramctl",
	Short:         "inspect declarative parameter validation configs",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "",
		"path to the config file (yaml, json or toml)")
	_ = rootCmd.MarkPersistentFlagRequired("config")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(showCmd)
}
