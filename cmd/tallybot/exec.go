package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joestump/tallybot/internal/command"
	"github.com/joestump/tallybot/internal/store"
)

func newExecCmd() *cobra.Command {
	var (
		actor    uint64
		location uint64
	)
	cmd := &cobra.Command{
		Use:   "exec --actor ID [--location ID] -- <message>",
		Short: "Run one command against the stores and print the reply",
		Long: `Runs a single message through the dispatcher as the given user, exactly as
if it arrived over HTTP. Without --location the command runs in the generic
namespace. The message must include the command prefix.`,
		Example: `  tallybot exec --actor 1234 --location 42 -- ";counter create wins"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := store.Generic
			if cmd.Flags().Changed("location") {
				if location == 0 {
					return errors.New("--location must not be 0; omit it for generic")
				}
				loc = store.InLocation(location)
			}

			dispatcher, err := newDispatcher(cfg, logger)
			if err != nil {
				return err
			}
			reply, err := dispatcher.Dispatch(command.Request{
				ActorID:  actor,
				Location: loc,
				Content:  strings.Join(args, " "),
			})
			if errors.Is(err, command.ErrNotCommand) {
				return fmt.Errorf("message must start with %q", cfg.CommandPrefix)
			}
			if err != nil {
				return err
			}
			if reply != "" {
				fmt.Fprintln(cmd.OutOrStdout(), reply)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&actor, "actor", 0, "user id to run the command as")
	cmd.Flags().Uint64Var(&location, "location", 0, "community id to run the command in")
	_ = cmd.MarkFlagRequired("actor")
	return cmd
}
