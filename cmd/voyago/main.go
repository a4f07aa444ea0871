// Command voyago runs the holiday-search agent service: a websocket
// endpoint where each connection is one conversation with the assistant.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voyago/voyago"
	"github.com/voyago/voyago/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "voyago",
	Short: "Conversational holiday-search agent",
	Long: `Voyago serves a websocket endpoint (GET /ws/:client_id) where each
connection carries one conversation. User messages are driven through the
configured assistant, which calls the hotel-search tool as needed.

Configuration comes from a YAML file (--config) and VOYAGO_* environment
variables; VOYAGO_OPENAI_API_KEY is required.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		bot, err := voyago.New(cfg)
		if err != nil {
			return err
		}

		return bot.Serve(context.Background())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: environment only)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
