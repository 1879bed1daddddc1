package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// configSections lists the recognised keys, grouped for display.
var configSections = []struct {
	name string
	keys []string
}{
	{"embedding", []string{
		"embedding.provider", "embedding.base_url", "embedding.model",
		"embedding.dimensions", "embedding.api_key",
	}},
	{"llm", []string{
		"llm.provider", "llm.base_url", "llm.model", "llm.api_key",
	}},
	{"store", []string{"store.data_dir"}},
	{"ingest", []string{
		"ingest.chunk_size", "ingest.chunk_overlap", "ingest.chunk_threshold",
		"ingest.default_days",
	}},
	{"sources", []string{
		"sources.limitless.enabled", "sources.limitless.api_key", "sources.limitless.base_url",
		"sources.bee.enabled", "sources.bee.api_key", "sources.bee.base_url",
		"sources.exportdir.path",
	}},
	{"export", []string{"export.output_dir"}},
	{"scheduler", []string{"scheduler.enabled", "scheduler.interval"}},
	{"timezone", []string{"timezone.name"}},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration values. Values are stored in a TOML
file; run 'pensieve config path' to see where.`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and saves the file. Values that look like
booleans or numbers are stored as such, everything else as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all configured values",
	RunE:  runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	value, ok := configStore.Lookup(key)
	if !ok {
		cmd.Println("(not set)")
		return nil
	}

	cmd.Println(displayConfigValue(key, value))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if !isKnownConfigKey(key) {
		cmd.Printf("Note: %q is not a recognised key.\n", key)
	}

	if err := configStore.Set(key, parseConfigValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s.\n", key)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	wrote := false
	for _, section := range configSections {
		printed := false
		for _, key := range section.keys {
			value, ok := configStore.Lookup(key)
			if !ok {
				continue
			}
			if !printed {
				if wrote {
					cmd.Println()
				}
				cmd.Printf("[%s]\n", section.name)
				printed = true
				wrote = true
			}
			cmd.Printf("  %s = %s\n", strings.TrimPrefix(key, section.name+"."), displayConfigValue(key, value))
		}
	}

	if !wrote {
		cmd.Println("No values configured.")
		cmd.Println("Set one with 'pensieve config set <key> <value>'.")
	}

	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println(configStore.Path())
	return nil
}

func isKnownConfigKey(key string) bool {
	for _, section := range configSections {
		for _, known := range section.keys {
			if key == known {
				return true
			}
		}
	}
	return false
}

// parseConfigValue maps CLI input to the type the TOML file should carry.
func parseConfigValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}

// displayConfigValue masks secrets so they never reach the terminal in full.
func displayConfigValue(key string, value any) string {
	if strings.HasSuffix(key, ".api_key") {
		if s, ok := value.(string); ok && s != "" {
			return maskAPIKey(s)
		}
	}
	return fmt.Sprintf("%v", value)
}
