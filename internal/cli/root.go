package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type rootOptions struct {
	configPath string
	port       string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "party-quiz",
		Short:        "Two-player party quiz runner",
		SilenceUsage: true,
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVar(&opts.configPath, "config", "config/config.yaml", "path to YAML config (env: PARTYQUIZ_CONFIG)")
	fs.StringVar(&opts.port, "port", "", "port to listen on, overrides server.port (env: PARTYQUIZ_PORT)")
	bindEnv(fs)

	cmd.AddCommand(NewStartCmd(opts))
	cmd.AddCommand(NewPlayCmd(opts))
	cmd.AddCommand(NewRoundsCmd(opts))
	cmd.AddCommand(NewTypesCmd())
	cmd.AddCommand(NewMigrateCmd(opts))
	return cmd
}

// bindEnv lets PARTYQUIZ_<FLAG> set any flag the command line leaves unset.
func bindEnv(fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix("PARTYQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
