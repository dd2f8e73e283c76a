package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gpniroj-png/chatbot-agent/internal/prefs"
	"github.com/gpniroj-png/chatbot-agent/providers/ai"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage persisted preferences",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the persisted default provider and model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		stored, err := store.Load()
		if err != nil {
			return err
		}
		fmt.Printf("provider = %s\nmodel    = %s\n", orUnset(stored.Provider), orUnset(stored.Model))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Persist the default provider and/or model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagProvider == "" && flagModel == "" {
			return fmt.Errorf("nothing to set: pass --provider and/or --model")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		stored, err := store.Load()
		if err != nil {
			return err
		}

		if flagProvider != "" {
			if !ai.ProviderName(flagProvider).Valid() {
				return fmt.Errorf("unknown provider %q (expected groq, gemini, or huggingface)", flagProvider)
			}
			stored.Provider = flagProvider
		}
		if flagModel != "" {
			stored.Model = flagModel
		}
		return store.Save(stored)
	},
}

func openStore() (*prefs.Store, error) {
	dir, err := prefs.DefaultDir()
	if err != nil {
		return nil, err
	}
	return prefs.NewStore(dir), nil
}

func orUnset(value string) string {
	if value == "" {
		return "(unset)"
	}
	return value
}
