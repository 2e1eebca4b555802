package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete memories by ownership",
		Long:  "Delete a user's memories, only their preferences, or everything NOT owned by them (the repair after an account switch). Index and vector rows go with the records.",
		Run:   runCleanup,
	}

	cmd.Flags().StringP("user", "u", "", "Owning user (required)")
	cmd.Flags().Bool("prefs", false, "Delete only the user's preference records")
	cmd.Flags().Bool("keep-user", false, "Delete every record NOT owned by the user")

	cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}

func runCleanup(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetString("user")
	prefs, _ := cmd.Flags().GetBool("prefs")
	keepUser, _ := cmd.Flags().GetBool("keep-user")

	if prefs && keepUser {
		exitErr("cleanup", fmt.Errorf("--prefs and --keep-user are mutually exclusive"))
	}

	s, _ := openStore()
	defer s.Close()

	var (
		deleted int64
		err     error
	)
	switch {
	case prefs:
		deleted, err = s.DeletePreferencesForOwner(cmd.Context(), user)
	case keepUser:
		deleted, err = s.DeleteNotForOwner(cmd.Context(), user)
	default:
		deleted, err = s.DeleteForOwner(cmd.Context(), user)
	}
	if err != nil {
		exitErr("cleanup", err)
	}

	fmt.Printf(`{"ok":true,"deleted":%d}`+"\n", deleted)
}
