package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"katydid-common-param/pkg/validator/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "validate the config and every declared schema rule",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := config.Lint(cfg.Schemas); err != nil {
		return err
	}

	rules := 0
	for _, s := range cfg.Schemas {
		rules += len(s.Required) + len(s.Rules)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d schemas, %d rules\n", len(cfg.Schemas), rules)
	return nil
}
