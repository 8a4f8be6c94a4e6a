package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/chatmux/pkg/cli"
	"github.com/haivivi/chatmux/pkg/sidechan"
)

var (
	genImageProvider string
	genImageCount    int
	genImageSave     string
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "One-shot generation calls",
	Long: `One-shot generation calls against a running backend.

Each subcommand takes a prompt as positional arguments, or a request
file via -f. Start the backend with 'chatmux serve' first.

Example request file (image.yaml):
  prompt: A watercolor lighthouse at dusk
  provider: replicate
  numOutputs: 1`,
}

var genImageCmd = &cobra.Command{
	Use:   "image [prompt...]",
	Short: "Generate an image",
	Long: `Generate an image from a text prompt.

Examples:
  chatmux -c myctx gen image "a watercolor lighthouse at dusk"
  chatmux -c myctx gen image -f image.yaml --save out.png
  chatmux -c myctx gen image "a fox" --provider openai --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := getContext()
		if err != nil {
			return err
		}

		var req sidechan.ImageRequest
		if path := getInputFile(); path != "" {
			if err := loadRequest(path, &req); err != nil {
				return err
			}
		}
		if err := fillPrompt(&req.Prompt, args); err != nil {
			return err
		}
		if genImageProvider != "" {
			req.Provider = genImageProvider
		}
		if genImageCount > 0 {
			req.NumOutputs = genImageCount
		}

		printVerbose("Using context: %s", ctx.Name)
		printVerbose("Prompt: %s", req.Prompt)

		client := createClient(ctx)

		reqCtx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		start := time.Now()
		img, err := client.Image.Generate(reqCtx, &req)
		if err != nil {
			return fmt.Errorf("image generation failed: %w", err)
		}
		printVerbose("Settled in %s", cli.FormatDuration(int(time.Since(start).Milliseconds())))

		if genImageSave != "" {
			data, err := base64.StdEncoding.DecodeString(img.Base64)
			if err != nil {
				return fmt.Errorf("failed to decode image payload: %w", err)
			}
			if err := outputBytes(data, genImageSave); err != nil {
				return err
			}
			printSuccess("Image saved to %s (%s, %s)", genImageSave, img.MediaType, cli.FormatBytes(len(data)))
			return nil
		}

		return outputResult(img, getOutputFile(), isJSONOutput())
	},
}

var genTaskCmd = &cobra.Command{
	Use:   "task [prompt...]",
	Short: "Generate a structured task list",
	Long: `Generate a structured task list from a text prompt.

Examples:
  chatmux -c myctx gen task "plan a product launch"
  chatmux -c myctx gen task -f task.yaml --json | jq '.tasks[].title'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := getContext()
		if err != nil {
			return err
		}

		var req sidechan.TaskRequest
		if err := fillPrompt(&req.Prompt, args); err != nil {
			return err
		}

		printVerbose("Using context: %s", ctx.Name)
		printVerbose("Prompt: %s", req.Prompt)

		client := createClient(ctx)

		reqCtx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		tasks, err := client.Task.Generate(reqCtx, &req)
		if err != nil {
			return fmt.Errorf("task generation failed: %w", err)
		}

		printVerbose("Generated %d tasks", len(tasks.Tasks))
		return outputResult(tasks, getOutputFile(), isJSONOutput())
	},
}

var genUICmd = &cobra.Command{
	Use:   "ui [prompt...]",
	Short: "Generate an external UI preview",
	Long: `Generate a UI through the v0 platform and print the preview URL.

Examples:
  chatmux -c myctx gen ui "a pricing page with three tiers"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := getContext()
		if err != nil {
			return err
		}

		var req sidechan.PreviewRequest
		if err := fillPrompt(&req.Prompt, args); err != nil {
			return err
		}

		printVerbose("Using context: %s", ctx.Name)

		client := createClient(ctx)

		reqCtx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		preview, err := client.Preview.Generate(reqCtx, &req)
		if err != nil {
			return fmt.Errorf("ui generation failed: %w", err)
		}

		printSuccess("Preview: %s", preview.URL)
		return outputResult(preview, getOutputFile(), isJSONOutput())
	},
}

// fillPrompt resolves the prompt from -f or from positional args. A request
// file takes precedence; args are joined with spaces.
func fillPrompt(prompt *string, args []string) error {
	if path := getInputFile(); path != "" {
		var req struct {
			Prompt string `json:"prompt" yaml:"prompt"`
		}
		if err := loadRequest(path, &req); err != nil {
			return err
		}
		if req.Prompt != "" {
			*prompt = req.Prompt
			return nil
		}
	}
	if *prompt == "" {
		joined := strings.TrimSpace(strings.Join(args, " "))
		if joined == "" {
			return fmt.Errorf("a prompt is required, pass it as arguments or use -f")
		}
		*prompt = joined
	}
	return nil
}

func init() {
	genImageCmd.Flags().StringVar(&genImageProvider, "provider", "", "image provider (replicate or openai)")
	genImageCmd.Flags().IntVar(&genImageCount, "n", 0, "number of outputs")
	genImageCmd.Flags().StringVar(&genImageSave, "save", "", "decode and save the image to a file")

	genCmd.AddCommand(genImageCmd)
	genCmd.AddCommand(genTaskCmd)
	genCmd.AddCommand(genUICmd)
}
