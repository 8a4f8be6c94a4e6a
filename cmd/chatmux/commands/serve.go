package commands

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spf13/cobra"

	"github.com/haivivi/chatmux/pkg/genapi"
	"github.com/haivivi/chatmux/pkg/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the generation backend",
	Long: `Run the chatmux generation backend.

The backend exposes the chat streaming endpoint and the side-channel
generation endpoints (image, task, ui). Providers are wired from the
context's API keys; a missing key simply leaves that capability
unconfigured.

Examples:
  chatmux -c myctx serve
  chatmux -c myctx serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := getContext()
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		srv := &genapi.Server{
			Images: map[string]genapi.ImageProvider{},
			Logger: logger,
		}

		if ctx.OpenAIKey != "" {
			opts := []option.RequestOption{option.WithAPIKey(ctx.OpenAIKey)}
			if ctx.OpenAIBaseURL != "" {
				opts = append(opts, option.WithBaseURL(ctx.OpenAIBaseURL))
			}
			client := openai.NewClient(opts...)

			srv.Chat = &session.OpenAIStreamer{Client: &client}
			srv.Tasks = &genapi.OpenAITasks{Client: &client}
			srv.Images[genapi.ProviderOpenAI] = &genapi.OpenAIImages{Client: &client}
		}

		if ctx.ReplicateKey != "" {
			srv.Images[genapi.ProviderReplicate] = &genapi.ReplicateImages{APIKey: ctx.ReplicateKey}
		}

		if ctx.V0Key != "" {
			srv.UI = &genapi.V0Client{APIKey: ctx.V0Key}
		}

		if srv.Chat == nil && len(srv.Images) == 0 && srv.UI == nil {
			return fmt.Errorf("context %q has no provider keys configured", ctx.Name)
		}

		logger.Info("backend listening",
			"addr", serveAddr,
			"chat", srv.Chat != nil,
			"image_providers", len(srv.Images),
			"tasks", srv.Tasks != nil,
			"ui", srv.UI != nil)

		return http.ListenAndServe(serveAddr, srv.Handler())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8390", "listen address")
}
