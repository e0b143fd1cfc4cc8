package command

// root.go defines the root command for the mangabook CLI.
// Global flags and the token config file live here.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mangabook/cmd/cli/command/client"
	"mangabook/internal/sync"
)

var (
	apiURL  string // global flag for API server URL
	cfgFile string // config file path
	token   string // authentication token (jwt)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mangabook",
	Short: "mangabook - personal manga list manager",
	Long: `mangabook keeps your categorized manga reading list on a mangabook server.
You can:
- Register, log in and recover your password
- Show and search your categorized list
- Add, edit, move and delete categories and manga
- Import and export your list as TXT, JSON or PDF
- Fetch missing cover art from the Jikan catalog

Use "mangabook <command> --help" to see all available commands.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default $HOME/.mangabook/config.json)")

	cobra.OnInitialize(loadCLIConfig)
}

// cliConfig is what persists between CLI invocations.
type cliConfig struct {
	APIURL string `json:"api_url,omitempty"`
	Token  string `json:"token,omitempty"`
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mangabook-config.json"
	}
	return filepath.Join(home, ".mangabook", "config.json")
}

func loadCLIConfig() {
	data, err := os.ReadFile(configPath())
	if err != nil {
		return // first run, nothing saved yet
	}
	var cfg cliConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: unreadable config file %s: %v\n", configPath(), err)
		return
	}
	token = cfg.Token
	if cfg.APIURL != "" && !rootCmd.PersistentFlags().Changed("api") {
		apiURL = cfg.APIURL
	}
}

func saveCLIConfig() error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cliConfig{APIURL: apiURL, Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func newClient() *client.HTTPClient {
	return client.NewHTTPClient(strings.TrimRight(apiURL, "/"), token)
}

// newEngine builds a sync engine over the API client with notifications
// printed to stdout.
func newEngine() *sync.Engine {
	notifier := sync.NotifierFunc(func(level sync.Level, message string) {
		fmt.Printf("[%s] %s\n", level, message)
	})
	return sync.NewEngine(newClient(), notifier, nil)
}

func requireToken() error {
	if token == "" {
		return fmt.Errorf("not logged in, run \"mangabook login\" first")
	}
	return nil
}
