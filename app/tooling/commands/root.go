// Package commands holds the operator CLI: migrations, local sessions and
// offline tree rendering.
package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/jrazmi/anchorboard/app/anchorboard/config"
	"github.com/jrazmi/anchorboard/sdk/environment"
	"github.com/jrazmi/anchorboard/sdk/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	dirColor  = color.New(color.FgBlue, color.Bold)
)

// app is the state shared by every subcommand.
type app struct {
	log    *logger.Logger
	prefix string
	driver string
}

func NewRootCmd(log *logger.Logger, prefix, build string) *cobra.Command {
	a := &app{log: log, prefix: prefix}

	root := &cobra.Command{
		Use:           "tooling",
		Short:         "Operator commands for anchorboard",
		Version:       build,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.addFlags(root.PersistentFlags())

	root.AddCommand(a.migrateCmd())
	root.AddCommand(a.sessionCmd())
	root.AddCommand(treeCmd())

	return root
}

func (a *app) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&a.driver, "driver", "", "database driver (postgres or sqlite), overrides "+environment.GetEnvKeyPrefix(a.prefix, "DB_DRIVER"))
}

// openBackend connects without migrating. Flags win over the environment.
func (a *app) openBackend(ctx context.Context) (config.Backend, error) {
	var opts config.Options
	if err := environment.ParseEnvTags(a.prefix, &opts); err != nil {
		return config.Backend{}, fmt.Errorf("parsing database options: %w", err)
	}
	if a.driver != "" {
		opts.Driver = a.driver
	}
	opts.MigrateOnBoot = false

	b, err := config.OpenBackend(ctx, a.log, a.prefix, opts)
	if err != nil {
		return config.Backend{}, err
	}
	a.log.InfoContext(ctx, "init", "service", b.Driver)
	return b, nil
}
