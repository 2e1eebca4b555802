package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recall [query]",
		Short: "Retrieve memories matching a query",
		Long:  "Hybrid lexical+vector recall. Queries with a temporal reference (\"yesterday\", \"last week\") are answered from that time window.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRecall,
	}

	cmd.Flags().StringP("persona", "p", "default", "Persona to recall from")
	cmd.Flags().StringP("user", "u", "default", "Owning user")
	cmd.Flags().IntP("limit", "k", 0, "Max results (0 = engine default)")

	RootCmd.AddCommand(cmd)
}

func runRecall(cmd *cobra.Command, args []string) {
	persona, _ := cmd.Flags().GetString("persona")
	user, _ := cmd.Flags().GetString("user")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	e, s := openEngine()
	defer s.Close()

	hits, err := e.Recall(cmd.Context(), persona, user, query, limit)
	if err != nil {
		exitErr("recall", err)
	}

	if len(hits) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(hits, "", "  ")
	fmt.Println(string(b))
}
