package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nexus/internal/app"
	"nexus/internal/chat"
)

var historyLimit int

// askCmd sends one chat message and prints the reply
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send a message to the assistant and print the reply",
	Long: `Appends the message to the workspace chat log, waits for the reply and
prints it. Requires an API key (see "nexus prefs set api-key").`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// historyCmd prints the chat log
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the chat log",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show only the last n messages")
}

// noticeError prefixes err with the controller's latest notice, which holds
// the user-facing explanation.
func noticeError(ctrl *app.Controller, err error) error {
	if n, ok := ctrl.LastNotice(); ok && n.Level == app.LevelError {
		return fmt.Errorf("%s: %w", n.Text, err)
	}
	return err
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctrl, _, err := openController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx, stop := signalContext(true)
	defer stop()

	reply, err := ctrl.SubmitChat(ctx, strings.Join(args, " "))
	if err != nil {
		return noticeError(ctrl, err)
	}
	msg, err := reply.Wait(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg.Content)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctrl, _, err := openController()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	msgs := ctrl.Messages()
	if historyLimit > 0 && len(msgs) > historyLimit {
		msgs = msgs[len(msgs)-historyLimit:]
	}
	out := cmd.OutOrStdout()
	if len(msgs) == 0 {
		fmt.Fprintln(out, "No messages yet")
		return nil
	}
	for _, m := range msgs {
		who := "You"
		if m.Role == chat.RoleAssistant {
			who = "Nexus AI"
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", m.Timestamp.Format("2006-01-02 15:04"), who, m.Content)
	}
	return nil
}
