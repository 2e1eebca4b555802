package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kavro/mnemo/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:       "memory [on|off]",
		Short:     "Enable or disable memory for a persona",
		Long:      "Toggle the per-persona memory flag. While off, ingestion and context assembly are no-ops; existing records are kept.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		Run:       runMemory,
	}

	cmd.Flags().StringP("persona", "p", "default", "Persona to toggle")

	RootCmd.AddCommand(cmd)
}

func runMemory(cmd *cobra.Command, args []string) {
	persona, _ := cmd.Flags().GetString("persona")
	enabled := args[0] == "on"
	if !enabled && args[0] != "off" {
		exitErr("memory", fmt.Errorf("argument must be on or off, got %q", args[0]))
	}

	s, _ := openStore()
	defer s.Close()

	flags := store.NewSettingsFlags(s)
	if err := flags.SetMemoryEnabled(cmd.Context(), persona, enabled); err != nil {
		exitErr("memory", err)
	}

	fmt.Printf(`{"ok":true,"persona":%q,"enabled":%t}`+"\n", persona, enabled)
}
