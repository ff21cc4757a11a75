package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ronittamrakar/Xordon-sub011/internal/cli"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

var (
	automationFilter string
	statusFilter     string
	limit            int
)

var logsCmd = &cobra.Command{
	Use:   "logs [execution-id]",
	Short: "View automation execution logs",
	Long: `View the execution audit trail. Can show a specific execution or
list recent executions.

Examples:
  followup logs                                  # List recent executions
  followup logs abc123                           # Show specific execution
  followup logs --automation <id>                # Filter by automation
  followup logs --status failed                  # Filter by status
  followup logs --limit 50                       # Show last 50 executions`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := cli.NewClient(viper.GetString("api.url"), viper.GetString("api.token"))

		if err := client.HealthCheck(); err != nil {
			fmt.Printf("❌ API health check failed: %v\n", err)
			fmt.Println("💡 Tip: Make sure the API server is running")
			os.Exit(1)
		}

		if len(args) == 1 {
			showExecutionDetails(client, args[0])
			return
		}

		listExecutions(client)
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().StringVar(&automationFilter, "automation", "", "Filter by automation ID")
	logsCmd.Flags().StringVar(&statusFilter, "status", "", "Filter by status (pending, scheduled, executed, failed)")
	logsCmd.Flags().IntVar(&limit, "limit", 20, "Number of executions to show")
}

func showExecutionDetails(client *cli.Client, executionID string) {
	id, err := uuid.Parse(executionID)
	if err != nil {
		fmt.Printf("❌ Invalid execution ID: %s\n", executionID)
		os.Exit(1)
	}

	fmt.Printf("🔍 Fetching execution: %s\n\n", executionID)

	execution, err := client.GetExecution(id)
	if err != nil {
		fmt.Printf("❌ Failed to get execution: %v\n", err)
		os.Exit(1)
	}

	if outputJSON {
		data, _ := json.MarshalIndent(execution, "", "  ")
		fmt.Println(string(data))
		return
	}

	printExecutionDetails(execution)
}

func listExecutions(client *cli.Client) {
	fmt.Println("📋 Fetching executions...")

	result, err := client.ListExecutions(automationFilter, limit)
	if err != nil {
		fmt.Printf("❌ Failed to get executions: %v\n", err)
		os.Exit(1)
	}

	executions := result.Executions
	if statusFilter != "" {
		filtered := executions[:0]
		for _, e := range executions {
			if string(e.Status) == statusFilter {
				filtered = append(filtered, e)
			}
		}
		executions = filtered
	}

	if outputJSON {
		data, _ := json.MarshalIndent(executions, "", "  ")
		fmt.Println(string(data))
		return
	}

	printExecutionList(executions)
}

func printExecutionDetails(execution *models.AutomationExecution) {
	fmt.Println("📊 Execution Details")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("ID:           %s\n", execution.ID)
	fmt.Printf("Automation:   %s\n", execution.AutomationID)
	fmt.Printf("Contact:      %s\n", execution.ContactID)
	fmt.Printf("Trigger:      %s\n", execution.TriggerEvent)
	fmt.Printf("Status:       %s\n", getStatusEmoji(execution.Status))
	fmt.Printf("Scheduled:    %s\n", execution.ScheduledAt.Format("2006-01-02 15:04:05"))
	if execution.ExecutedAt != nil {
		fmt.Printf("Executed:     %s\n", execution.ExecutedAt.Format("2006-01-02 15:04:05"))
		duration := execution.ExecutedAt.Sub(execution.CreatedAt)
		fmt.Printf("Duration:     %s\n", duration.Round(time.Millisecond))
	}
	if execution.MatchedConfidence != nil {
		fmt.Printf("Confidence:   %.0f\n", *execution.MatchedConfidence)
	}
	if execution.ErrorMessage != nil && *execution.ErrorMessage != "" {
		fmt.Printf("Error:        %s\n", *execution.ErrorMessage)
	}

	if execution.TriggerReason != nil {
		fmt.Println("\n📝 Why it matched:")
		fmt.Println("───────────────────────────────────────────────────────────")
		reasonData, err := json.MarshalIndent(execution.TriggerReason, "", "  ")
		if err == nil {
			fmt.Println(string(reasonData))
		}
	}

	fmt.Println("\n📦 Action Result:")
	fmt.Println("───────────────────────────────────────────────────────────")
	if execution.ActionResult != nil {
		resultData, err := json.MarshalIndent(execution.ActionResult, "", "  ")
		if err == nil {
			fmt.Println(string(resultData))
		}
	} else {
		fmt.Println("No action result recorded")
	}
}

func printExecutionList(executions []models.AutomationExecution) {
	if len(executions) == 0 {
		fmt.Println("📭 No executions found")
		fmt.Println("\n💡 Send a test trigger:")
		fmt.Println("  followup trigger call --event event.json")
		return
	}

	fmt.Printf("📋 Found %d execution(s):\n\n", len(executions))
	fmt.Println("┌──────────────────────────────────────┬──────────────────────────┬──────────────┬─────────────────────┐")
	fmt.Println("│ Execution ID                         │ Trigger                  │ Status       │ Scheduled At        │")
	fmt.Println("├──────────────────────────────────────┼──────────────────────────┼──────────────┼─────────────────────┤")

	for _, e := range executions {
		fmt.Printf("│ %-36s │ %-24s │ %-12s │ %-19s │\n",
			truncate(e.ID.String(), 36),
			truncate(e.TriggerEvent, 24),
			getStatusEmoji(e.Status),
			e.ScheduledAt.Format("2006-01-02 15:04:05"),
		)
	}

	fmt.Println("└──────────────────────────────────────┴──────────────────────────┴──────────────┴─────────────────────┘")
	fmt.Println("\n📖 View details:")
	fmt.Println("  followup logs <execution-id>")
}

func getStatusEmoji(status models.ExecutionStatus) string {
	switch status {
	case models.ExecutionStatusPending:
		return "⏳ Pending"
	case models.ExecutionStatusScheduled:
		return "📅 Scheduled"
	case models.ExecutionStatusExecuted:
		return "✅ Executed"
	case models.ExecutionStatusFailed:
		return "❌ Failed"
	default:
		return string(status)
	}
}
