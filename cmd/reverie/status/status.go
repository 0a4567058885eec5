// Package statuscmder provides the status command for displaying the
// saved session memory in the local .reverie directory.
package statuscmder

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reveriegames/reverie/pkg/cliui"
	"github.com/reveriegames/reverie/pkg/logger"
	"github.com/reveriegames/reverie/pkg/memory/store/cachefile"
	"github.com/reveriegames/reverie/pkg/utils"
)

const statusLongDesc string = `Show the saved session memory.

Reads the local .reverie/ directory (or ~/.reverie/) to display the cached
session record: world, location, counters, and the recent history log.

If no memory is cached, indicates that the next play will start a new
session.

Examples:
  reverie status`

const statusShortDesc string = "Show saved session memory"

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runStatus(configDir)
		},
	}

	return cmd
}

func runStatus(configDir string) error {
	local, err := cachefile.NewDriver(configDir, logger.Nop())
	if err != nil {
		return fmt.Errorf("opening cache slot: %w", err)
	}

	record, err := local.Read()
	if err != nil {
		return fmt.Errorf("reading cache slot: %w", err)
	}

	if record == nil {
		fmt.Printf("  %s No saved memory. Next play will start a new session.\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Printf("\n  %s  %s\n", cliui.KeyStyle.Render("Session: "), cliui.NameStyle.Render(record.SessionID))
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("World:   "), record.World)
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Location:"), record.Location)
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Scene:   "), record.SceneTag)
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Scenes:  "), cliui.NameStyle.Render(strconv.Itoa(record.ScenesCompleted)))
	fmt.Printf("  %s  %d min\n", cliui.KeyStyle.Render("Played:  "), record.PlayTimeMinutes)
	fmt.Printf("  %s  %s\n\n", cliui.KeyStyle.Render("Updated: "), cliui.DimStyle.Render(record.LastUpdated.Format("2006-01-02 15:04:05")))

	for i, entry := range record.History {
		preview := utils.Truncate(entry, 72)
		fmt.Printf("  %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.ValueStyle.Render(preview),
		)
	}

	if len(record.History) > 0 {
		fmt.Println()
	}
	return nil
}
