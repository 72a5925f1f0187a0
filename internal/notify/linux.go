//go:build linux

package notify

import (
	"fmt"
	"os/exec"
)

type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return linuxNotifier{}
}

func (linuxNotifier) Available() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

// Notify shells out to notify-send. Whether a sound plays is up to the
// notification daemon; sound only raises the urgency hint.
func (linuxNotifier) Notify(msg Message, sound bool) error {
	args := []string{"--app-name=planner"}
	if sound {
		args = append(args, "--urgency=normal")
	} else {
		args = append(args, "--urgency=low")
	}
	args = append(args, msg.Title, msg.Body)

	if err := exec.Command("notify-send", args...).Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}
