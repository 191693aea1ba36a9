package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/oarsail/skiff/internal/config"
	"github.com/spf13/cobra"
)

func newHostsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "hosts",
		Short: "List configured hosts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if len(cfg.Hosts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no hosts configured")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tHOST\tUSER\tPORT")
			for _, h := range cfg.Hosts {
				entry := config.MergeSSHConfig(cfg.LookupHost(hostName(h)))
				port := entry.Port
				if port == 0 {
					port = 22
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", hostName(h), entry.Host, entry.User, port)
			}
			return w.Flush()
		},
	}
}

func hostName(h config.HostConfig) string {
	if h.Name != "" {
		return h.Name
	}
	return h.Host
}
