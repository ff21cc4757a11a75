package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ronittamrakar/Xordon-sub011/pkg/auth"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a service API key and its hash",
	Long: `Generate a service API key for machine-to-machine access.

The plaintext key is shown once; give it to the calling system and send it
as the X-API-Key header. Put the hash in the server environment as
SERVICE_API_KEY_HASH together with SERVICE_USER_ID.`,
	RunE: runKeygen,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}

func runKeygen(cmd *cobra.Command, args []string) error {
	key, err := auth.GenerateAPIKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	hash, err := auth.HashAPIKey(key)
	if err != nil {
		return fmt.Errorf("failed to hash key: %w", err)
	}

	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"api_key": key,
			"hash":    hash,
		})
	}

	fmt.Println("🔑 Service API key generated")
	fmt.Println()
	fmt.Printf("API key (save it now, it is not stored anywhere):\n  %s\n\n", key)
	fmt.Printf("Server configuration:\n  SERVICE_API_KEY_HASH='%s'\n  SERVICE_USER_ID=<uuid of the service user>\n\n", hash)
	fmt.Println("💡 Callers send the key as the X-API-Key header")
	return nil
}
