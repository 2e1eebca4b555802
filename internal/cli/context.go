package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "context [message]",
		Short: "Assemble prompt context for an incoming message",
		Long:  "Recall long-term memories relevant to the message and pack them into the token budget. Short-term turns require a chat history source and are omitted here.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runContext,
	}

	cmd.Flags().StringP("persona", "p", "default", "Persona to build context for")
	cmd.Flags().StringP("user", "u", "default", "Owning user")
	cmd.Flags().String("chat", "", "Chat session id")

	RootCmd.AddCommand(cmd)
}

func runContext(cmd *cobra.Command, args []string) {
	persona, _ := cmd.Flags().GetString("persona")
	user, _ := cmd.Flags().GetString("user")
	chatID, _ := cmd.Flags().GetString("chat")
	message := strings.Join(args, " ")

	e, s := openEngine()
	defer s.Close()

	bundle, err := e.ContextFor(cmd.Context(), message, persona, user, chatID)
	if err != nil {
		exitErr("context", err)
	}

	b, _ := json.MarshalIndent(bundle, "", "  ")
	fmt.Println(string(b))
}
