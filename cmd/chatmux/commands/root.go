package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/chatmux/pkg/cli"
)

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	inputFile   string
	outputJSON  bool
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatmux",
	Short: "Conversational multiplexer CLI",
	Long: `chatmux - A conversational front end that routes each submission
either to a streaming chat session or to a side-channel generator.

Commands prefixed with phrases like "generate image", "create tasks" or
"build a page" are dispatched to the matching generator; everything else
streams through the chat model.

Configuration is stored in ~/.chatmux/ and supports multiple contexts,
similar to kubectl's context management.

Examples:
  # Set up a new context
  chatmux config add-context myctx --openai-key YOUR_KEY --replicate-key R8_KEY

  # Run the backend, then chat against it
  chatmux -c myctx serve
  chatmux -c myctx chat

  # One-shot generation, piped as JSON
  chatmux -c myctx gen task "plan a birthday party" --json | jq '.tasks'
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.chatmux/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "input request file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(chatCmd)
}

func initConfig() {
	var err error
	globalConfig, err = cli.LoadConfigWithPath(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the context configuration to use
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	ctx, err := cfg.ResolveContext(contextName)
	if err != nil {
		if contextName == "" {
			return nil, fmt.Errorf("no context specified. Use -c flag or set a default context with 'chatmux config use-context'")
		}
		return nil, err
	}

	return ctx, nil
}

// getInputFile returns the input file path
func getInputFile() string {
	return inputFile
}

// getOutputFile returns the output file path
func getOutputFile() string {
	return outputFile
}

// isJSONOutput returns whether output should be JSON
func isJSONOutput() bool {
	return outputJSON
}

// outputResult outputs the result using cli package
func outputResult(result any, outputPath string, asJSON bool) error {
	format := cli.FormatYAML
	if asJSON {
		format = cli.FormatJSON
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   outputPath,
	})
}

// printVerbose prints verbose output if enabled
func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
