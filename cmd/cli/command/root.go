package command

// root.go defines the root command for the reportamctl application.
// set up the global flags here.

import (
	"fmt"
	"os"

	"reportam/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var (
	apiURL string // Global flag for API server URL
	token  string // admin bearer token (jwt)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reportamctl",
	Short: "reportamctl - Reportam comment service command line interface",
	Long: `reportamctl talks to the reportam comment API and its database. Use it to:
- Read a report's comments as a flat page or as a thread
- Post comments and replies, like and delete comments
- Repair drifted report comment counts

Use "reportamctl command --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("REPORTAM_API_URL", "http://localhost:8080"), "API server URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("REPORTAM_ADMIN_TOKEN"), "admin bearer token")
}

// GetClient returns an API client, authenticated when a token was given
func GetClient() *client.HTTPClient {
	c := client.NewHTTPClient(apiURL)
	if token != "" {
		c.SetToken(token)
	}
	return c
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
