package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kavro/mnemo/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ingest [user-text] :: [assistant-text]",
		Short: "Ingest a conversation turn into memory",
		Long:  "Split, classify, embed and store both sides of a turn. Separate the user and assistant texts with '::'; the assistant side is optional.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runIngest,
	}

	cmd.Flags().StringP("persona", "p", "default", "Persona the memory belongs to")
	cmd.Flags().StringP("user", "u", "default", "Owning user")
	cmd.Flags().String("chat", "", "Chat session id (minted when empty)")
	cmd.Flags().Bool("incognito", false, "Process the turn without persisting anything")

	RootCmd.AddCommand(cmd)
}

func runIngest(cmd *cobra.Command, args []string) {
	persona, _ := cmd.Flags().GetString("persona")
	user, _ := cmd.Flags().GetString("user")
	chatID, _ := cmd.Flags().GetString("chat")
	incognito, _ := cmd.Flags().GetBool("incognito")

	if chatID == "" {
		chatID = uuid.NewString()
	}

	userText, assistantText := splitTurn(strings.Join(args, " "))

	e, s := openEngine()
	defer s.Close()

	records, err := e.Ingest(cmd.Context(), model.ChatTurn{
		UserText:      userText,
		AssistantText: assistantText,
	}, persona, user, chatID, incognito)
	if err != nil {
		exitErr("ingest", err)
	}

	out := struct {
		ChatID  string               `json:"chat_id"`
		Stored  int                  `json:"stored"`
		Records []model.MemoryRecord `json:"records,omitempty"`
	}{ChatID: chatID, Stored: len(records), Records: records}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}

func splitTurn(text string) (user, assistant string) {
	if idx := strings.Index(text, "::"); idx >= 0 {
		return strings.TrimSpace(text[:idx]), strings.TrimSpace(text[idx+2:])
	}
	return strings.TrimSpace(text), ""
}
