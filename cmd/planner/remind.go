package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"planner/internal/notify"
)

// newNotifier is swapped in tests so nothing reaches the real desktop.
var newNotifier = notify.New

func newRemindCmd(opts *rootOptions) *cobra.Command {
	var sound, printOnly bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send a desktop reminder of today's open tasks and habits",
		Long: `Sends a desktop notification listing tasks due today, habits not yet
checked in and the overdue count. Run it from cron or a systemd timer for a
daily nudge. Without a notification tool (osascript or notify-send) the
reminder is printed instead.`,
		Example: `  # every weekday at 18:00
  0 18 * * 1-5  planner remind`,
		Args: cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			s := e.Store()
			msg, ok := notify.Reminder(s.Snapshot(), s.Now())
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "Nothing left for today.")
				return nil
			}

			n := newNotifier()
			if printOnly || !n.Available() {
				fmt.Fprintln(out, msg.Body)
				return nil
			}
			if err := n.Notify(msg, sound); err != nil {
				return fmt.Errorf("send reminder: %w", err)
			}
			e.log.Info("reminder sent")
			fmt.Fprintln(out, "✓ Reminder sent")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&sound, "sound", false, "play the notification sound")
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the reminder instead of notifying")
	return cmd
}
