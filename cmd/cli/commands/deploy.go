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

var deployCmd = &cobra.Command{
	Use:   "deploy [automation-file]",
	Short: "Deploy an automation to the server",
	Long: `Deploy an automation definition to the followup engine server.

The deploy command will:
  1. Validate the automation definition
  2. Check if the API server is reachable
  3. Create the automation on the server (created active)

Examples:
  followup deploy automation.json
  followup deploy automation.json --api-url http://prod.example.com:8080`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		if _, err := os.Stat(filename); os.IsNotExist(err) {
			fmt.Printf("❌ Error: File '%s' not found\n", filename)
			os.Exit(1)
		}

		fmt.Println("🔍 Validating automation...")
		validationResult, err := cli.ValidateAutomationFile(filename)
		if err != nil {
			fmt.Printf("❌ Error validating automation: %v\n", err)
			os.Exit(1)
		}

		if !validationResult.Valid {
			fmt.Println("❌ Automation validation failed:")
			for _, err := range validationResult.Errors {
				fmt.Printf("  - %s\n", err)
			}
			os.Exit(1)
		}
		fmt.Println("✅ Validation passed")

		def, err := cli.LoadAutomationFromFile(filename)
		if err != nil {
			fmt.Printf("❌ Error loading automation: %v\n", err)
			os.Exit(1)
		}

		apiURL := viper.GetString("api.url")
		client := cli.NewClient(apiURL, viper.GetString("api.token"))

		fmt.Printf("🔗 Connecting to API: %s\n", apiURL)
		if err := client.HealthCheck(); err != nil {
			fmt.Printf("❌ API health check failed: %v\n", err)
			fmt.Println("💡 Tip: Make sure the API server is running")
			os.Exit(1)
		}

		fmt.Printf("🚀 Deploying automation '%s'...\n", def.Name)
		created, err := client.CreateAutomation(def)
		if err != nil {
			fmt.Printf("❌ Failed to deploy automation: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("✅ Automation deployed successfully!")
		printAutomationInfo(created)

		fmt.Println("\n📋 Next steps:")
		fmt.Printf("  • List automations: followup list --channel %s\n", created.Channel)
		fmt.Printf("  • Test it:          followup trigger %s --event event.json\n", created.Channel)
		fmt.Printf("  • View executions:  followup logs --automation %s\n", created.ID)
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
}

func printAutomationInfo(automation *models.Automation) {
	if outputJSON {
		data, _ := json.MarshalIndent(automation, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Printf("\n📦 Automation Details:\n")
		fmt.Printf("  ID:        %s\n", automation.ID)
		fmt.Printf("  Name:      %s\n", automation.Name)
		fmt.Printf("  Channel:   %s\n", automation.Channel)
		fmt.Printf("  Trigger:   %s\n", automation.TriggerType)
		fmt.Printf("  Action:    %s\n", automation.ActionType)
		fmt.Printf("  Delay:     %d %s\n", automation.DelayAmount, automation.DelayUnit)
		fmt.Printf("  Priority:  %d\n", automation.Priority)
		fmt.Printf("  Active:    %v\n", automation.IsActive)
		fmt.Printf("  Created:   %s\n", automation.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}
