package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oarsail/skiff/internal/remote"
	"github.com/spf13/cobra"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	var stdin bool

	cmd := &cobra.Command{
		Use:   "run <target> <command>...",
		Short: "Run a command on a remote host",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			entry, err := flags.resolveTarget(cfg, args[0])
			if err != nil {
				return err
			}

			conn, err := flags.connect(entry)
			if err != nil {
				return err
			}
			defer conn.Close()

			opts := remote.RunOpts{}
			if stdin {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				opts.Stdin = data
			}

			result, err := conn.Run(strings.Join(args[1:], " "), opts)
			if err != nil {
				return err
			}

			os.Stdout.Write(result.Stdout)
			os.Stderr.Write(result.Stderr)
			if !result.OK() {
				return fmt.Errorf("command exited %d", result.Exited)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdin, "stdin", false, "forward local stdin to the remote command")
	return cmd
}
