// Package newcmder provides the new command for discarding saved session
// memory and starting fresh.
package newcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reveriegames/reverie/pkg/cliui"
	"github.com/reveriegames/reverie/pkg/config"
	"github.com/reveriegames/reverie/pkg/logger"
	"github.com/reveriegames/reverie/pkg/memory/store/cachefile"
	storehttp "github.com/reveriegames/reverie/pkg/memory/store/httpapi"
)

type newCommander struct {
	memoryTarget string
	world        string
	offline      bool
	debug        bool
}

const newLongDesc string = `Discard saved session memory and start fresh.

Clears the local cache slot and asks the memory service to delete the
session's saved record. The remote delete is best-effort: if the service
is unreachable the local slot is still cleared and the next play starts
a new session.

Optionally set the world for the next session with --world; the value is
persisted to config so "reverie play" picks it up.

Examples:
  reverie new
  reverie new --world verdant-ruins
  reverie new --offline`

const newShortDesc string = "Discard saved memory and start fresh"

func NewNewCmd() *cobra.Command {
	cmder := &newCommander{}

	cmd := &cobra.Command{
		Use:   "new",
		Short: newShortDesc,
		Long:  newLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("memory-target") {
				cmder.memoryTarget = cfg.Client.MemoryTarget
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(configDir)
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.memoryTarget, "memory-target", "m", defaults.Client.MemoryTarget, "Memory service URL")
	cmd.Flags().StringVarP(&cmder.world, "world", "w", "", "World for the next session (persisted to config)")
	cmd.Flags().BoolVar(&cmder.offline, "offline", false, "Skip the memory service entirely")

	return cmd
}

func (c *newCommander) run(configDir string) error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))

	local, err := cachefile.NewDriver(configDir, log)
	if err != nil {
		return fmt.Errorf("opening cache slot: %w", err)
	}

	cached, err := local.Read()
	if err != nil {
		return fmt.Errorf("reading cache slot: %w", err)
	}

	fmt.Println()

	if err := local.Clear(); err != nil {
		return fmt.Errorf("clearing cache slot: %w", err)
	}
	fmt.Printf("  %s Local memory cleared\n", cliui.SuccessMark)

	// Without a cached record there is no session id to delete remotely.
	if !c.offline && cached != nil {
		remote := storehttp.NewClient(c.memoryTarget)
		if err := remote.Delete(context.Background(), cached.SessionID); err != nil {
			log.Warn("remote delete failed", "session_id", cached.SessionID, "error", err)
			fmt.Printf("  %s Memory service unreachable, remote record kept\n", cliui.FailMark)
		} else {
			fmt.Printf("  %s Remote memory deleted %s\n",
				cliui.SuccessMark,
				cliui.DimStyle.Render("("+cached.SessionID+")"),
			)
		}
	}

	if c.world != "" {
		cfger, err := config.NewConfiger(configDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfger.SetConfigValue("session.world", c.world); err != nil {
			return fmt.Errorf("saving world: %w", err)
		}
		fmt.Printf("  %s Next session starts in %s\n", cliui.SuccessMark, cliui.NameStyle.Render(c.world))
	}

	fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("Run \"reverie play\" to begin."))
	return nil
}
