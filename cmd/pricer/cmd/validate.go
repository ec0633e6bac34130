package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/meenmo/ratecore/manager"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and resolve the configuration file without pricing",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", configPath, err)
	}

	reg, err := manager.LoadConfig(data)
	if err != nil {
		return fmt.Errorf("loading %s: %w", configPath, err)
	}

	log.Info().
		Int("calendars", len(reg.Calendars.Names())).
		Int("schedules", len(reg.Schedules.Names())).
		Int("day_counts", len(reg.DayCounts.Names())).
		Int("indices", len(reg.Indices.Names())).
		Msg("configuration resolved")
	fmt.Println("configuration valid")
	return nil
}
