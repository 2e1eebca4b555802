package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kavro/mnemo/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export memories as JSON",
		Long:  "Export memory records as JSON. Vectors are not exported; they are rebuilt when the records are re-ingested elsewhere. Filter to one scope with --persona/--user.",
		Run:   runExport,
	}

	cmd.Flags().StringP("persona", "p", "", "Filter by persona")
	cmd.Flags().StringP("user", "u", "", "Filter by owning user")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	persona, _ := cmd.Flags().GetString("persona")
	user, _ := cmd.Flags().GetString("user")

	s, _ := openStore()
	defer s.Close()

	var scope *store.Scope
	if persona != "" || user != "" {
		scope = &store.Scope{PersonaID: persona, UserID: user}
	}

	records, err := s.ExportAll(cmd.Context(), scope)
	if err != nil {
		exitErr("export", err)
	}

	b, _ := json.MarshalIndent(records, "", "  ")
	fmt.Println(string(b))
}
