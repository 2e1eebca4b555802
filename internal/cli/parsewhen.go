package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kavro/mnemo/internal/temporal"
)

func init() {
	cmd := &cobra.Command{
		Use:   "parse-when [phrase]",
		Short: "Show the time range a phrase resolves to",
		Long:  "Debug helper for the temporal parser. Prints the resolved window, or null when the phrase carries no temporal reference.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runParseWhen,
	}

	cmd.Flags().String("now", "", "Reference time, RFC 3339 (default: current time)")

	RootCmd.AddCommand(cmd)
}

func runParseWhen(cmd *cobra.Command, args []string) {
	nowFlag, _ := cmd.Flags().GetString("now")

	now := time.Now()
	if nowFlag != "" {
		var err error
		now, err = time.Parse(time.RFC3339, nowFlag)
		if err != nil {
			exitErr("parse --now", err)
		}
	}

	r := temporal.Parse(strings.Join(args, " "), now)
	b, _ := json.MarshalIndent(r, "", "  ")
	fmt.Println(string(b))
}
