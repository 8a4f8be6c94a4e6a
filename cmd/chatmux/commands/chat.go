package commands

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/haivivi/chatmux/pkg/session"
	"github.com/haivivi/chatmux/pkg/sidechan"
	"github.com/haivivi/chatmux/pkg/tui"
)

var (
	chatModel     string
	chatWebSearch bool
)

// chatModels is the set of chat models the TUI can cycle through.
var chatModels = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"deepseek-reasoner",
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat TUI",
	Long: `Start the interactive chat TUI against a running backend.

Plain messages stream through the chat model. Messages that look like
generation commands ("generate image of ...", "create tasks for ...",
"build a page ...") run on the side channel and settle into the
timeline when done.

Start the backend first:
  chatmux -c myctx serve

Then:
  chatmux -c myctx chat
  chatmux -c myctx chat --model gpt-4o-mini --web-search`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := getContext()
		if err != nil {
			return err
		}

		baseURL := ctx.BackendURL
		if baseURL == "" {
			baseURL = sidechan.DefaultBaseURL
		}

		model := chatModel
		if model == "" {
			model = ctx.DefaultModel
		}
		if model == "" {
			model = chatModels[0]
		}

		printVerbose("Backend: %s", baseURL)
		printVerbose("Model: %s", model)

		return tui.Run(tui.Config{
			Streamer:  &session.SSEStreamer{BaseURL: baseURL, Client: http.DefaultClient},
			Client:    createClient(ctx),
			Model:     model,
			Models:    chatModels,
			WebSearch: chatWebSearch,
		})
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatModel, "model", "", "chat model (default from context)")
	chatCmd.Flags().BoolVar(&chatWebSearch, "web-search", false, "enable web search")
}
