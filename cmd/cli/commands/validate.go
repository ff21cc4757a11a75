package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ronittamrakar/Xordon-sub011/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [automation-file]",
	Short: "Validate an automation definition",
	Long: `Validate an automation definition file against the same rules the
API applies on create.

The validator checks:
  - Required fields (name, channel, trigger_type, action_type)
  - Channel and trigger type pairing
  - Action type
  - Delay amount and unit

Examples:
  followup validate automation.json
  followup validate negative-call-followup.json --json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		if _, err := os.Stat(filename); os.IsNotExist(err) {
			fmt.Printf("❌ Error: File '%s' not found\n", filename)
			os.Exit(1)
		}

		result, err := cli.ValidateAutomationFile(filename)
		if err != nil {
			fmt.Printf("❌ Error validating automation: %v\n", err)
			os.Exit(1)
		}

		if outputJSON {
			outputValidationJSON(result)
		} else {
			outputValidationText(result, filename)
		}

		if !result.Valid {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func outputValidationText(result *cli.ValidationResult, filename string) {
	fmt.Printf("\n🔍 Validating automation: %s\n\n", filename)

	if result.Valid {
		fmt.Println("✅ Automation is valid!")
		fmt.Println("\nNext step:")
		fmt.Printf("  followup deploy %s\n", filename)
	} else {
		fmt.Printf("❌ Automation validation failed with %d error(s):\n\n", len(result.Errors))
		for i, err := range result.Errors {
			fmt.Printf("  %d. %s\n", i+1, err)
		}
		fmt.Println("\n💡 Tip: Fix the errors above and run validate again")
	}
}

func outputValidationJSON(result *cli.ValidationResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Printf("Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
