package timeline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/haivivi/chatmux/pkg/cli"
	"github.com/haivivi/chatmux/pkg/convo"
	"github.com/haivivi/chatmux/pkg/session"
)

// Theme defines the color scheme for the rendered timeline.
type Theme struct {
	Primary lipgloss.Color // Accent color for assistant blocks
	User    lipgloss.Color // User turn color
	Dim     lipgloss.Color // Dimmed/help text color
	Danger  lipgloss.Color // Failure text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	User:    lipgloss.Color("#7aa2f7"),
	Dim:     lipgloss.Color("#6e7681"),
	Danger:  lipgloss.Color("#f7768e"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	UserLabel lipgloss.Style
	Assistant lipgloss.Style
	Reasoning lipgloss.Style
	Dim       lipgloss.Style
	Block     lipgloss.Style
	BlockTag  lipgloss.Style
	Done      lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		UserLabel: lipgloss.NewStyle().Bold(true).Foreground(t.User),
		Assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#c9d1d9")),
		Reasoning: lipgloss.NewStyle().Italic(true).Foreground(t.Dim),
		Dim:       lipgloss.NewStyle().Foreground(t.Dim),
		Block:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Primary).Padding(0, 1),
		BlockTag:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Done:      lipgloss.NewStyle().Foreground(t.Primary),
	}
}

// Renderer maps the merged timeline to terminal output. Rendering is a pure
// function of (streamed, synthetic, status): the same inputs always produce
// the same string, and nothing is cached between calls.
type Renderer struct {
	styles Styles
}

func NewRenderer(theme Theme) *Renderer {
	return &Renderer{styles: NewStyles(theme)}
}

// Render produces the ordered view of both message lists.
func (r *Renderer) Render(streamed, synthetic []*convo.Message, status session.Status) string {
	var lastStreamed *convo.Message
	if n := len(streamed); n > 0 {
		lastStreamed = streamed[n-1]
	}

	var sb strings.Builder
	for _, msg := range Merge(streamed, synthetic) {
		if block := r.renderMessage(msg, msg == lastStreamed, status); block != "" {
			sb.WriteString(block)
			sb.WriteString("\n")
		}
	}

	// Transient indicator between submit and the first token.
	if status == session.StatusSubmitted {
		sb.WriteString(r.styles.Dim.Render("…"))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Renderer) renderMessage(msg *convo.Message, isLastStreamed bool, status session.Status) string {
	var sb strings.Builder

	// Citation affordance: assistant messages list their web sources once,
	// above the parts.
	if msg.Role == convo.RoleAssistant {
		var urls []string
		for _, p := range msg.Parts {
			if src, ok := p.(*convo.SourceURL); ok {
				urls = append(urls, src.URL)
			}
		}
		if len(urls) > 0 {
			sb.WriteString(r.styles.BlockTag.Render(fmt.Sprintf("Used %d sources", len(urls))))
			sb.WriteString("\n")
			for _, u := range urls {
				sb.WriteString(r.styles.Dim.Render("  • " + u))
				sb.WriteString("\n")
			}
		}
	}

	for i, part := range msg.Parts {
		last := i == len(msg.Parts)-1
		if block := r.renderPart(msg, part, isLastStreamed, last, status); block != "" {
			sb.WriteString(block)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderPart dispatches on the part's type. The default arm is deliberate:
// an unrecognized part renders as nothing, so unknown tags degrade silently
// without disturbing their siblings.
func (r *Renderer) renderPart(msg *convo.Message, part convo.Part, isLastStreamed, isLastPart bool, status session.Status) string {
	switch t := part.(type) {
	case convo.Text:
		return r.renderText(msg, string(t), isLastStreamed, isLastPart)

	case convo.Reasoning:
		// Streaming flag: recomputed on every render, true only while the
		// owning message is the tail of the stream.
		text := string(t)
		if isLastStreamed && isLastPart && status == session.StatusStreaming {
			text += " ◌ thinking"
		}
		return r.styles.Reasoning.Render(text)

	case *convo.SourceURL:
		// Rendered by the citation affordance above the parts.
		return ""

	case *convo.Image:
		body := fmt.Sprintf("%s\n%s · %s", t.Alt, t.MediaType, cli.FormatBytes(imageSize(t)))
		return r.block("image", body)

	case *convo.TaskList:
		var sb strings.Builder
		for ti, task := range t.Tasks {
			if ti > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(r.styles.BlockTag.Render("▸ " + task.Title))
			for _, item := range task.Items {
				sb.WriteString("\n")
				switch item.Type {
				case "file":
					if item.File != nil {
						sb.WriteString(fmt.Sprintf("  %s %s", item.File.Icon, item.File.Name))
					}
				default:
					sb.WriteString("  " + item.Text)
				}
			}
		}
		return sb.String()

	case *convo.Preview:
		return r.block("preview", t.URL)

	case *convo.ChainOfThought:
		text := t.Text
		if text == "" {
			text = "Analyzing..."
		}
		return r.styles.BlockTag.Render("Chain of Thought") + "\n" + r.styles.Reasoning.Render(text)

	case *convo.Checkpoint:
		label := t.Label
		if label == "" {
			label = "checkpoint"
		}
		return r.styles.Dim.Render("── " + label + " ──")

	case *convo.Confirmation:
		body := "Confirm Action  [approve] [reject]"
		if t.State != "" {
			body += "  (" + t.State + ")"
		}
		return r.block("confirm", body)

	case *convo.ContextUsage:
		return r.styles.Dim.Render(fmt.Sprintf("context %d/%d tokens", t.UsedTokens, t.MaxTokens))

	case *convo.InlineCitation:
		text := t.Text
		if text == "" {
			text = "Citation"
		}
		if t.URL != "" {
			text += " " + r.styles.Dim.Render("("+t.URL+")")
		}
		return text

	case *convo.Plan:
		title := t.Title
		if title == "" {
			title = "Plan"
		}
		text := t.Text
		if text == "" {
			text = "Planning..."
		}
		body := r.styles.BlockTag.Render(title)
		if t.Description != "" {
			body += "\n" + r.styles.Dim.Render(t.Description)
		}
		return body + "\n" + text

	case *convo.Queue:
		var sb strings.Builder
		sb.WriteString(r.styles.BlockTag.Render(fmt.Sprintf("Queue (%d)", len(t.Items))))
		for _, item := range t.Items {
			indicator := "○"
			if item.Completed() {
				indicator = r.styles.Done.Render("✓")
			}
			sb.WriteString(fmt.Sprintf("\n  %s %s", indicator, item.Title))
		}
		return sb.String()

	case convo.Shimmer:
		text := string(t)
		if text == "" {
			text = "Loading..."
		}
		return r.styles.Dim.Render(text)

	case convo.Suggestion:
		return r.styles.Dim.Render("↳ " + string(t))

	case *convo.ToolUse:
		label := t.Name
		if label == "" {
			label = "tool"
		}
		out := r.styles.BlockTag.Render("⚙ " + label)
		if t.Text != "" {
			out += " " + t.Text
		}
		return out

	default:
		// Unknown tags render as nothing. Forward compatibility is silence,
		// not an error.
		return ""
	}
}

func (r *Renderer) renderText(msg *convo.Message, text string, isLastStreamed, isLastPart bool) string {
	if msg.Role == convo.RoleUser {
		return r.styles.UserLabel.Render("you ❯ ") + text
	}
	out := r.styles.Assistant.Render(text)
	// Retry/copy affordances only on the trailing text part of the last
	// streamed assistant message, never on synthetic messages.
	if isLastStreamed && isLastPart && msg.Role == convo.RoleAssistant {
		out += "\n" + r.styles.Dim.Render("  ↻ retry  ⧉ copy")
	}
	return out
}

func (r *Renderer) block(tag, body string) string {
	return r.styles.BlockTag.Render(tag) + "\n" + r.styles.Block.Render(body)
}

func imageSize(img *convo.Image) int {
	if len(img.Bytes) > 0 {
		return len(img.Bytes)
	}
	// Base64 length approximates the decoded size well enough for a label.
	return len(img.Base64) * 3 / 4
}
