package cmd

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"katydid-common-param/pkg/validator/config"
)

var flagFormat string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "print the effective config after defaults and env overrides",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVarP(&flagFormat, "format", "f", "yaml", "output format: yaml or json")
}

func runShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch flagFormat {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	default:
		return fmt.Errorf("unknown format %q", flagFormat)
	}
}
