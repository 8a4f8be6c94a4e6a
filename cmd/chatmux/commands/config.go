package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/chatmux/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts allow you to manage multiple provider-credential sets,
similar to kubectl's context management.

Configuration is stored in ~/.chatmux/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

At least one provider key must be supplied. The OpenAI key drives chat
and task generation, the Replicate key the default image provider, and
the v0 key UI generation.

Example:
  chatmux config add-context myctx --openai-key sk-...
  chatmux config add-context prod --openai-key sk-... --replicate-key r8_... --v0-key v1:...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		openaiKey, err := cmd.Flags().GetString("openai-key")
		if err != nil {
			return fmt.Errorf("failed to read 'openai-key' flag: %w", err)
		}
		replicateKey, err := cmd.Flags().GetString("replicate-key")
		if err != nil {
			return fmt.Errorf("failed to read 'replicate-key' flag: %w", err)
		}
		v0Key, err := cmd.Flags().GetString("v0-key")
		if err != nil {
			return fmt.Errorf("failed to read 'v0-key' flag: %w", err)
		}
		if openaiKey == "" && replicateKey == "" && v0Key == "" {
			return fmt.Errorf("at least one of --openai-key, --replicate-key, --v0-key is required")
		}

		openaiBaseURL, err := cmd.Flags().GetString("openai-base-url")
		if err != nil {
			return fmt.Errorf("failed to read 'openai-base-url' flag: %w", err)
		}
		backendURL, err := cmd.Flags().GetString("backend-url")
		if err != nil {
			return fmt.Errorf("failed to read 'backend-url' flag: %w", err)
		}
		defaultModel, err := cmd.Flags().GetString("default-model")
		if err != nil {
			return fmt.Errorf("failed to read 'default-model' flag: %w", err)
		}
		timeout, err := cmd.Flags().GetInt("timeout")
		if err != nil {
			return fmt.Errorf("failed to read 'timeout' flag: %w", err)
		}

		ctx := &cli.Context{
			OpenAIKey:     openaiKey,
			OpenAIBaseURL: openaiBaseURL,
			ReplicateKey:  replicateKey,
			V0Key:         v0Key,
			BackendURL:    backendURL,
			DefaultModel:  defaultModel,
			Timeout:       timeout,
		}

		cfg := getConfig()
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		cli.PrintSuccess("Context %q added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg := getConfig()
		if err := cfg.DeleteContext(name); err != nil {
			return err
		}

		cli.PrintSuccess("Context %q deleted", name)
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg := getConfig()
		if err := cfg.UseContext(name); err != nil {
			return err
		}

		cli.PrintSuccess("Switched to context %q", name)
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Display the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
			return nil
		}

		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		if len(cfg.Contexts) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tBACKEND_URL\tDEFAULT_MODEL")

		for name, ctx := range cfg.Contexts {
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			backendURL := ctx.BackendURL
			if backendURL == "" {
				backendURL = "(default)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", current, name, backendURL, ctx.DefaultModel)
		}

		w.Flush()
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		fmt.Printf("Config file: %s\n", cfg.Path())
		fmt.Printf("Current context: %s\n", cfg.CurrentContext)
		fmt.Printf("Contexts: %d\n", len(cfg.Contexts))

		if len(cfg.Contexts) > 0 {
			fmt.Println("\nContext details:")
			for name, ctx := range cfg.Contexts {
				fmt.Printf("\n  %s:\n", name)
				if ctx.OpenAIKey != "" {
					fmt.Printf("    OpenAI Key: %s\n", cli.MaskAPIKey(ctx.OpenAIKey))
				}
				if ctx.OpenAIBaseURL != "" {
					fmt.Printf("    OpenAI Base URL: %s\n", ctx.OpenAIBaseURL)
				}
				if ctx.ReplicateKey != "" {
					fmt.Printf("    Replicate Key: %s\n", cli.MaskAPIKey(ctx.ReplicateKey))
				}
				if ctx.V0Key != "" {
					fmt.Printf("    v0 Key: %s\n", cli.MaskAPIKey(ctx.V0Key))
				}
				if ctx.BackendURL != "" {
					fmt.Printf("    Backend URL: %s\n", ctx.BackendURL)
				}
				if ctx.DefaultModel != "" {
					fmt.Printf("    Default Model: %s\n", ctx.DefaultModel)
				}
				if ctx.Timeout > 0 {
					fmt.Printf("    Timeout: %ds\n", ctx.Timeout)
				}
			}
		}

		return nil
	},
}

func init() {
	// add-context flags
	configAddContextCmd.Flags().String("openai-key", "", "OpenAI API key")
	configAddContextCmd.Flags().String("openai-base-url", "", "OpenAI-compatible API base URL")
	configAddContextCmd.Flags().String("replicate-key", "", "Replicate API key")
	configAddContextCmd.Flags().String("v0-key", "", "v0 platform API key")
	configAddContextCmd.Flags().String("backend-url", "", "chatmux backend URL")
	configAddContextCmd.Flags().String("default-model", "", "Default chat model")
	configAddContextCmd.Flags().Int("timeout", 0, "Side-channel request timeout in seconds")

	// Add subcommands
	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
