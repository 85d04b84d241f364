package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	_ "net/http/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vx-labs/roster/cli"
	"github.com/vx-labs/roster/identity"
	"github.com/vx-labs/roster/lists"
	"github.com/vx-labs/roster/routines"
)

func newConfig() *viper.Viper {
	config := viper.New()
	config.SetEnvPrefix("roster")
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()
	return config
}

func main() {
	registry := routines.NewRegistry(&routines.Ping{})
	root := &cobra.Command{
		Use: "roster",
	}
	root.AddCommand(Worker(registry))
	root.AddCommand(Controller(registry))
	root.AddCommand(Members())
	root.AddCommand(&cobra.Command{
		Use: "version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), cli.Version())
		},
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// Worker runs a cluster member. Run it on every machine of the cluster, except the controller.
func Worker(registry *routines.Registry) *cobra.Command {
	config := newConfig()
	c := &cobra.Command{
		Use:   "worker",
		Short: "Run a cluster member, as a client, a server, or both",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := cli.Bootstrap(cmd, config, registry)
			if err != nil {
				return err
			}
			if err := ctx.Serve(ctx.Node); err != nil {
				return err
			}
			if err := ctx.JoinCluster(context.Background()); err != nil {
				ctx.Shutdown()
				return err
			}
			fmt.Println("Worker running.")
			fmt.Println("End with Ctrl-c (SIGINT).")
			ctx.Run()
			return nil
		},
	}
	cli.AddClusterFlags(c, config)
	return c
}

func printRoutines(registry *routines.Registry) {
	for _, name := range registry.Names() {
		fmt.Printf("  %s\n", name)
	}
}

// Controller pushes the member lists to every listed machine, then runs the named routine.
func Controller(registry *routines.Registry) *cobra.Command {
	config := newConfig()
	c := &cobra.Command{
		Use:   "controller HOSTS ROUTINE",
		Short: "Push the client and server lists to the listed machines, and run a routine",
		Long: fmt.Sprintf(`HOSTS is a comma-separated list of Hostname[:Port]['/'('c'|'s')]. No port means the default port %d.
'c' means client, 's' means server, neither means both. eg: localhost,1.2.3.4:2222/c,foo.net/s`, identity.DefaultPort),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, servers, err := lists.ParseHosts(args[0], identity.DefaultPort)
			if err != nil {
				return err
			}
			routineName := args[1]
			if _, err := registry.Get(routineName); err != nil {
				fmt.Printf("Routine %s not found. Available routines are:\n", routineName)
				printRoutines(registry)
				return err
			}
			ctx, err := cli.Bootstrap(cmd, config, registry)
			if err != nil {
				return err
			}
			broadcaster := ctx.Broadcaster
			if err := ctx.Serve(broadcaster.Lists()); err != nil {
				return err
			}
			fmt.Println("Controller running.")
			background := context.Background()
			err = broadcaster.Members(background, clients, servers)
			if err == nil {
				err = broadcaster.Load(background, routineName)
			}
			if err == nil {
				fmt.Printf("%s running. Wait for 'SUCCESS' or 'FAILURE' to be printed.\n", routineName)
				err = registry.Run(background, routineName, routines.Env{
					Picker:   broadcaster.Lists(),
					Executor: ctx.Executor,
					Logger:   ctx.Logger,
				})
			}
			if err != nil {
				fmt.Printf("FAILURE: %v\n", err)
			} else {
				fmt.Println("SUCCESS.")
			}
			fmt.Println("End with Ctrl-c (SIGINT).")
			ctx.Run()
			return nil
		},
	}
	cli.AddCommonFlags(c, config)
	c.SetUsageTemplate(c.UsageTemplate() + "\nRoutines:\n" + strings.Join(registry.Names(), "\n") + "\n")
	return c
}
