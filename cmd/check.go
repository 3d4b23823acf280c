package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lumenlab/glossa/internal/config"
)

// checkCmd validates the configuration and prints the effective limits.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and print the effective gate settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			color.Red("configuration invalid")
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Limiter", "Scope", "Window", "Max"})
		t.AppendRows([]table.Row{
			{"api", "ip", cfg.Limits.API.Window, cfg.Limits.API.Max},
			{"auth", "ip", cfg.Limits.Auth.Window, cfg.Limits.Auth.Max},
			{"upload", "user/ip", cfg.Limits.Upload.Window, cfg.Limits.Upload.Max},
			{"message", "user/ip", cfg.Limits.Message.Window, cfg.Limits.Message.Max},
		})
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"session:api", "user", "until logout", cfg.Limits.Session.API},
			{"session:upload", "user", "until logout", cfg.Limits.Session.Upload},
			{"session:message", "user", "until logout", cfg.Limits.Session.Message},
		})
		t.Render()

		ct := table.NewWriter()
		ct.SetOutputMirror(os.Stdout)
		ct.AppendHeader(table.Row{"Cache kind", "TTL"})
		ct.AppendRows([]table.Row{
			{"user", cfg.Cache.UserTTL},
			{"conversation", cfg.Cache.ConversationTTL},
			{"ai", cfg.Cache.AITTL},
			{"translation", cfg.Cache.TranslationTTL},
		})
		ct.Render()

		fmt.Println()
		color.Green("configuration OK (%s)", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
