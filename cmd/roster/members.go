package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vx-labs/roster/format"
	"github.com/vx-labs/roster/identity"
	"github.com/vx-labs/roster/membership"
	"github.com/vx-labs/roster/rpc"
	"github.com/vx-labs/roster/rpc/pb"
)

const memberTemplate = `  • {{ .Host | bold | green }}
    {{ "Role" | faint }}: {{ .Role | role }}
`

// Members prints the roster of a cluster member.
func Members() *cobra.Command {
	config := newConfig()
	c := &cobra.Command{
		Use:     "members",
		Aliases: []string{"ls"},
		Short:   "List the members known by a cluster member",
		Run: func(cmd *cobra.Command, _ []string) {
			endpoint, err := identity.ParseHost(config.GetString("endpoint"), identity.DefaultPort)
			if err != nil {
				logrus.Fatalf("invalid endpoint: %v", err)
			}
			caller := rpc.NewCaller()
			defer caller.Close()
			executor := rpc.NewRemote("", caller, config.GetDuration("timeout"))
			out := &pb.MemberList{}
			err = executor.Call(context.Background(), endpoint, membership.ListMembers, &pb.Empty{}, out)
			if err != nil {
				logrus.Errorf("failed to list members: %v", err)
				return
			}
			tpl := format.ParseTemplate(memberTemplate)
			for _, member := range out.Members {
				err = tpl.Execute(cmd.OutOrStdout(), member)
				if err != nil {
					logrus.Errorf("failed to display member %q: %v", member.Host, err)
				}
			}
		},
	}
	c.Flags().StringP("endpoint", "e", "localhost:3500", "Cluster member rpc endpoint")
	config.BindPFlag("endpoint", c.Flags().Lookup("endpoint"))
	c.Flags().DurationP("timeout", "t", 5*time.Second, "Request timeout")
	config.BindPFlag("timeout", c.Flags().Lookup("timeout"))
	return c
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}
