// Package reveriecmder
package reveriecmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/reveriegames/reverie/cmd/reverie/config"
	newcmder "github.com/reveriegames/reverie/cmd/reverie/new"
	playcmder "github.com/reveriegames/reverie/cmd/reverie/play"
	servecmder "github.com/reveriegames/reverie/cmd/reverie/serve"
	statuscmder "github.com/reveriegames/reverie/cmd/reverie/status"
	versioncmder "github.com/reveriegames/reverie/cmd/version"
)

const reverieLongDesc string = `Reverie is a narrative adventure client with durable session memory.

Play through the configured narrator backend:
  reverie play         Resume or start an interactive session
  reverie new          Discard saved memory and start fresh
  reverie status       Show the saved session memory

Run the memory service:
  reverie serve        Run the session memory service`

const reverieShortDesc string = "Reverie - Narrative Adventures"

func NewReverieCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reverie",
		Short: reverieShortDesc,
		Long:  reverieLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .reverie/ config directory")

	// Add subcommands
	cmd.AddCommand(playcmder.NewPlayCmd())
	cmd.AddCommand(newcmder.NewNewCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
