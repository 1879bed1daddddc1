package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/ai"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// vendorEnvVars maps API-backed sources to their key environment fallback.
var vendorEnvVars = map[string]string{
	domain.SourceLimitless: "LIMITLESS_API_KEY",
	domain.SourceBee:       "BEE_API_KEY",
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage vendor API keys",
	RunE:  runAuthStatus,
}

var authSetCmd = &cobra.Command{
	Use:   "set [source]",
	Short: "Store an API key for a source",
	Long: `Prompts for an API key and stores it in the config file. The key is
read without terminal echo. Keys can also be supplied through the
LIMITLESS_API_KEY and BEE_API_KEY environment variables.`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthSet,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credential and provider status",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	source := strings.ToLower(strings.TrimSpace(args[0]))
	if _, ok := vendorEnvVars[source]; !ok {
		return fmt.Errorf("unknown source %q (expected %s or %s)", args[0], domain.SourceLimitless, domain.SourceBee)
	}

	cmd.Printf("Enter %s API key: ", source)
	key := readPassword()
	cmd.Println()
	if key == "" {
		return errors.New("API key must not be empty")
	}

	if err := configStore.Set("sources."+source+".api_key", key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	cmd.Printf("Stored API key for %s (%s).\n", source, maskAPIKey(key))
	cmd.Printf("Run 'pensieve sync %s' to ingest.\n", source)
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	ctx := context.Background()

	cmd.Println("Sources:")
	for _, source := range []string{domain.SourceLimitless, domain.SourceBee} {
		cmd.Printf("  %-10s %s\n", source, sourceStatus(ctx, source))
	}

	cmd.Println()
	cmd.Println("Providers:")
	if err := ai.PingEmbedding(embeddingService); err != nil {
		cmd.Printf("  %-10s %v\n", "embedding", err)
	} else {
		cmd.Printf("  %-10s ok (%s)\n", "embedding", embeddingService.ModelName())
	}
	if llmService == nil {
		cmd.Printf("  %-10s not configured\n", "llm")
	} else if err := ai.PingLLM(llmService); err != nil {
		cmd.Printf("  %-10s %v\n", "llm", err)
	} else {
		cmd.Printf("  %-10s ok (%s)\n", "llm", llmService.ModelName())
	}

	return nil
}

// sourceStatus reports key presence and, when a connector is wired,
// whether the vendor accepts the key.
func sourceStatus(ctx context.Context, source string) string {
	key := sourceAPIKey(configStore, source, vendorEnvVars[source])
	if key == "" {
		return fmt.Sprintf("no API key (run 'pensieve auth set %s')", source)
	}

	if connectorRegistry != nil {
		if connector, err := connectorRegistry.Get(source); err == nil {
			if err := connector.Validate(ctx); err != nil {
				return fmt.Sprintf("key %s, validation failed: %v", maskAPIKey(key), err)
			}
			return fmt.Sprintf("key %s, validated", maskAPIKey(key))
		}
	}

	return fmt.Sprintf("key %s (source disabled)", maskAPIKey(key))
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
