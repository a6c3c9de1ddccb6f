// cmd/gztest/check_config.go
package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCheckConfigCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "check-config",
		Short: "Validate a config file and print it with defaults applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath, "")
			if err != nil {
				return &exitError{code: exitRuntimeErr, msg: err.Error()}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to the YAML config file")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
