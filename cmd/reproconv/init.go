package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initConfig is the scaffolded reproconv.yml shape. Field order here is the
// order written to disk.
type initConfig struct {
	Protocol struct {
		Name        string `yaml:"name"`
		DisplayName string `yaml:"display_name"`
		Description string `yaml:"description"`
		Version     string `yaml:"version"`
	} `yaml:"protocol"`
	Source struct {
		Dialect string `yaml:"dialect"`
	} `yaml:"source"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
}

var initCmd = &cobra.Command{
	Use:   "init <protocol-name>",
	Short: "Scaffold a reproconv.yml in the current directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat("reproconv.yml"); err == nil {
			return fmt.Errorf("reproconv.yml already exists")
		}

		var cfg initConfig
		cfg.Protocol.Name = args[0]
		cfg.Protocol.DisplayName = args[0]
		cfg.Protocol.Version = "1.0.0"
		cfg.Source.Dialect = "redcap"
		cfg.Output.Dir = "."

		data, err := yaml.Marshal(&cfg)
		if err != nil {
			return err
		}
		if err := os.WriteFile("reproconv.yml", data, 0644); err != nil {
			return fmt.Errorf("failed to write reproconv.yml: %w", err)
		}
		fmt.Println("Created reproconv.yml")
		return nil
	},
}
