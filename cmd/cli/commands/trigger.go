package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ronittamrakar/Xordon-sub011/internal/cli"
	"github.com/ronittamrakar/Xordon-sub011/internal/models"
)

var (
	eventFile      string
	triggerType    string
	triggerContact string
)

var triggerCmd = &cobra.Command{
	Use:   "trigger [channel]",
	Short: "Send a test trigger event",
	Long: `Send a trigger event to the engine on a channel and report which
automations matched.

The trigger command will:
  1. Load the event data from file or build a sample event
  2. Send the event to the API
  3. Print the match results

Examples:
  followup trigger call --event event.json
  followup trigger email --type email_replied --contact 5f1c...
  followup trigger sms (uses a sample event)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		channel := args[0]
		if !models.IsValidChannel(channel) {
			fmt.Printf("❌ Error: unknown channel '%s'\n", channel)
			os.Exit(1)
		}

		event := map[string]interface{}{}
		if eventFile != "" {
			eventData, err := os.ReadFile(eventFile)
			if err != nil {
				fmt.Printf("❌ Error reading event file: %v\n", err)
				os.Exit(1)
			}
			if err := json.Unmarshal(eventData, &event); err != nil {
				fmt.Printf("❌ Error parsing event file: %v\n", err)
				os.Exit(1)
			}
		} else {
			event = createSampleEvent(models.Channel(channel))
		}

		if triggerType != "" {
			event["trigger_type"] = triggerType
		}
		if triggerContact != "" {
			event["contact_id"] = triggerContact
		}
		if event["contact_id"] == nil || event["contact_id"] == "" {
			event["contact_id"] = uuid.New().String()
			fmt.Println("⚠️  No contact specified, using a random contact id")
		}

		client := cli.NewClient(viper.GetString("api.url"), viper.GetString("api.token"))

		fmt.Println("🔗 Connecting to API...")
		if err := client.HealthCheck(); err != nil {
			fmt.Printf("❌ API health check failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("🚀 Sending trigger event (channel: %s, type: %v)...\n", channel, event["trigger_type"])
		result, err := client.SendTrigger(channel, event)
		if err != nil {
			fmt.Printf("❌ Failed to send trigger: %v\n", err)
			os.Exit(1)
		}

		if outputJSON {
			data, _ := json.MarshalIndent(result, "", "  ")
			fmt.Println(string(data))
			return
		}

		if result.Matched == 0 {
			fmt.Println("📭 No automations matched this event")
			fmt.Println("\n💡 Check your automations:")
			fmt.Printf("  followup list --channel %s\n", channel)
			return
		}

		fmt.Printf("✅ %d automation(s) matched!\n", result.Matched)
		for i, raw := range result.Results {
			fmt.Printf("\n📦 Match %d:\n", i+1)
			var pretty map[string]interface{}
			if err := json.Unmarshal(raw, &pretty); err == nil {
				data, _ := json.MarshalIndent(pretty, "  ", "  ")
				fmt.Printf("  %s\n", string(data))
			}
		}

		fmt.Println("\n💡 Next steps:")
		fmt.Println("  • View executions: followup logs")
	},
}

func init() {
	rootCmd.AddCommand(triggerCmd)
	triggerCmd.Flags().StringVarP(&eventFile, "event", "e", "", "Event data file (JSON)")
	triggerCmd.Flags().StringVarP(&triggerType, "type", "t", "", "Trigger type override")
	triggerCmd.Flags().StringVar(&triggerContact, "contact", "", "Contact ID the event belongs to")
}

func createSampleEvent(channel models.Channel) map[string]interface{} {
	switch channel {
	case models.ChannelCall:
		return map[string]interface{}{
			"trigger_type": "call_disposition",
			"payload": map[string]interface{}{
				"disposition": "interested",
				"duration":    184,
				"notes":       "Asked for pricing details, wants a follow-up next week",
			},
		}
	case models.ChannelEmail:
		return map[string]interface{}{
			"trigger_type": "email_replied",
			"payload": map[string]interface{}{
				"message": "Thanks, this looks great. Can you send over the contract?",
				"subject": "Re: Proposal",
			},
		}
	case models.ChannelSMS:
		return map[string]interface{}{
			"trigger_type": "sms_reply",
			"payload": map[string]interface{}{
				"message": "Yes, I'm interested. What are the next steps?",
			},
		}
	case models.ChannelForm:
		return map[string]interface{}{
			"trigger_type": "form_submitted",
			"payload": map[string]interface{}{
				"form_id": "demo-request",
				"fields": map[string]interface{}{
					"company": "Acme Inc",
					"size":    "50-200",
				},
			},
		}
	default:
		return map[string]interface{}{
			"trigger_type": "message_received",
			"payload": map[string]interface{}{
				"message": "Hello, following up on our conversation",
			},
		}
	}
}
