package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	apiURL     string
	apiToken   string
	outputJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "followup",
	Short: "Followup Engine CLI - Manage follow-up automations",
	Long: `The Followup Engine CLI allows you to create, validate, deploy,
and inspect follow-up automations from the command line.

Examples:
  followup validate automation.json
  followup deploy automation.json
  followup list --channel call
  followup trigger call --event event.json
  followup logs <execution-id>`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initConfig()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.followup-cli.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Followup API URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "api-token", "", "API authentication token")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output results in JSON format")

	viper.BindPFlag("api.url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("api.token", rootCmd.PersistentFlags().Lookup("api-token"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".followup-cli")
	}

	viper.SetEnvPrefix("FOLLOWUP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if !outputJSON {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	// Flags win over config file values
	if apiURL != "" && apiURL != "http://localhost:8080" {
		viper.Set("api.url", apiURL)
	}
	if apiToken != "" {
		viper.Set("api.token", apiToken)
	}
}
