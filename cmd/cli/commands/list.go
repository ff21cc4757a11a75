package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ronittamrakar/Xordon-sub011/internal/cli"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

var (
	listChannel     string
	listTriggerType string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active automations for a channel",
	Long: `List the active automations registered on the server for a channel,
in the order the engine evaluates them (priority first, newest first).

Examples:
  followup list --channel call
  followup list --channel email --trigger-type email_replied
  followup list --channel sms --json`,
	Run: func(cmd *cobra.Command, args []string) {
		client := cli.NewClient(viper.GetString("api.url"), viper.GetString("api.token"))

		if err := client.HealthCheck(); err != nil {
			fmt.Printf("❌ API health check failed: %v\n", err)
			fmt.Println("💡 Tip: Make sure the API server is running")
			os.Exit(1)
		}

		automations, err := client.ListAutomations(listChannel, listTriggerType)
		if err != nil {
			fmt.Printf("❌ Failed to list automations: %v\n", err)
			os.Exit(1)
		}

		if outputJSON {
			data, _ := json.MarshalIndent(automations, "", "  ")
			fmt.Println(string(data))
			return
		}

		printAutomationList(automations)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listChannel, "channel", "c", "call", "Channel to list automations for (call, email, sms, form)")
	listCmd.Flags().StringVarP(&listTriggerType, "trigger-type", "t", "", "Only show automations for this trigger type")
}

func printAutomationList(automations []models.Automation) {
	if len(automations) == 0 {
		fmt.Printf("📭 No active automations on channel '%s'\n", listChannel)
		fmt.Println("\n💡 Deploy one:")
		fmt.Println("  followup deploy automation.json")
		return
	}

	fmt.Printf("📋 Found %d automation(s) on channel '%s':\n\n", len(automations), listChannel)
	fmt.Println("┌──────────────────────────────────────┬──────────────────────────┬────────────────────┬────────────────────┬──────────┐")
	fmt.Println("│ ID                                   │ Name                     │ Trigger            │ Action             │ Priority │")
	fmt.Println("├──────────────────────────────────────┼──────────────────────────┼────────────────────┼────────────────────┼──────────┤")

	for _, a := range automations {
		fmt.Printf("│ %-36s │ %-24s │ %-18s │ %-18s │ %8d │\n",
			truncate(a.ID.String(), 36),
			truncate(a.Name, 24),
			truncate(a.TriggerType, 18),
			truncate(a.ActionType, 18),
			a.Priority,
		)
	}

	fmt.Println("└──────────────────────────────────────┴──────────────────────────┴────────────────────┴────────────────────┴──────────┘")
	fmt.Println("\n📖 Inspect executions:")
	fmt.Println("  followup logs --automation <id>")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
