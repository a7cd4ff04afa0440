package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/utkarsh5026/mapretry/retry"
)

func newScheduleCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the pauses a delay strategy produces",
		Long: `schedule prints one row per gap between attempts for the chosen strategy.
The output can be fed to retry.WithDelaySchedule.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			strategy := v.GetString("strategy")
			delays, err := buildSchedule(
				strategy,
				v.GetInt("attempts"),
				v.GetDuration("initial"),
				v.GetDuration("max"),
				v.GetFloat64("jitter"),
			)
			if err != nil {
				return err
			}
			renderSchedule(cmd.OutOrStdout(), strategy, delays)
			return nil
		},
	}

	f := cmd.Flags()
	f.String("strategy", "constant", "Delay strategy: constant, exponential, jittered or decorrelated")
	f.Int("attempts", 5, "Attempt budget")
	f.Duration("initial", 100*time.Millisecond, "Initial (or constant) pause")
	f.Duration("max", 5*time.Second, "Upper bound for growing strategies")
	f.Float64("jitter", 0.1, "Jitter factor for the jittered strategy")

	return cmd
}

func buildSchedule(strategy string, attempts int, initial, maxDelay time.Duration, jitter float64) ([]time.Duration, error) {
	if attempts < 1 {
		return nil, fmt.Errorf("attempts must be at least 1, got %d", attempts)
	}

	switch strategy {
	case "constant":
		return retry.ConstantSchedule(attempts, initial), nil
	case "exponential":
		return retry.ExponentialSchedule(attempts, initial, maxDelay), nil
	case "jittered":
		return retry.JitteredSchedule(attempts, initial, maxDelay, jitter), nil
	case "decorrelated":
		return retry.DecorrelatedSchedule(attempts, initial, maxDelay), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}
