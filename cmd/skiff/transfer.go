package main

import (
	"fmt"

	"github.com/oarsail/skiff/internal/remote"
	"github.com/oarsail/skiff/internal/transfer"
	"github.com/spf13/cobra"
)

func newPutCmd(flags *rootFlags) *cobra.Command {
	var glob bool

	cmd := &cobra.Command{
		Use:   "put <target> <local> [remote]",
		Short: "Upload a file to a remote host",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dialTarget(flags, args[0])
			if err != nil {
				return err
			}
			defer conn.Close()

			xfer := transfer.New(conn)
			remotePath := ""
			if len(args) == 3 {
				remotePath = args[2]
			}

			if glob {
				results, err := xfer.PutGlob(args[1], remotePath)
				if err != nil {
					return err
				}
				for _, res := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.Local, res.Remote)
				}
				return nil
			}

			res, err := xfer.Put(args[1], remotePath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.Local, res.Remote)
			return nil
		},
	}

	cmd.Flags().BoolVar(&glob, "glob", false, "treat the local path as a doublestar pattern")
	return cmd
}

func newGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <target> <remote> [local]",
		Short: "Download a file from a remote host",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dialTarget(flags, args[0])
			if err != nil {
				return err
			}
			defer conn.Close()

			localPath := ""
			if len(args) == 3 {
				localPath = args[2]
			}
			res, err := transfer.New(conn).Get(args[1], localPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.Remote, res.Local)
			return nil
		},
	}
}

// dialTarget is the shared config-resolve-connect path for transfer commands.
func dialTarget(flags *rootFlags, target string) (*remote.Connection, error) {
	cfg, err := flags.loadConfig()
	if err != nil {
		return nil, err
	}
	entry, err := flags.resolveTarget(cfg, target)
	if err != nil {
		return nil, err
	}
	return flags.connect(entry)
}
