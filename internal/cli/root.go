// Package cli implements the mapretry command line tool.
package cli

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment overrides, e.g. MAPRETRY_WORKERS=16.
const envPrefix = "MAPRETRY"

// NewRootCommand builds the command tree. Each call returns an independent
// tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "mapretry",
		Short: "Exercise retried operations on a concurrent map",
		Long: `mapretry drives the retry layer against a sharded concurrent map.

"race" makes many goroutines contend for the same keys and checks that the
map's atomic guarantees survive retries. "schedule" prints the pauses a
delay strategy would produce for a given attempt budget.

Every flag can also be set through the environment, e.g. MAPRETRY_WORKERS=16.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			if v.GetBool("plain") {
				color.NoColor = true
			}
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "info", "Logging level (debug, info, warn, error)")
	root.PersistentFlags().Bool("plain", false, "Disable colors")

	root.AddCommand(newRaceCommand(v), newScheduleCommand(v))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err == nil {
			err = v.BindPFlag(f.Name, f)
		}
	})
	return err
}
