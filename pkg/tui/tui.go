// Package tui implements the interactive chat terminal UI.
//
// The model owns a streaming chat session and a side-channel executor.
// Every submission is classified first: side-channel commands resolve in
// the background and settle as synthetic assistant turns, everything else
// streams through the chat session. All session and executor mutations
// happen in Update; background commands only carry results back as
// typed messages.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haivivi/chatmux/pkg/cli"
	"github.com/haivivi/chatmux/pkg/convo"
	"github.com/haivivi/chatmux/pkg/session"
	"github.com/haivivi/chatmux/pkg/sidechan"
	"github.com/haivivi/chatmux/pkg/timeline"
)

const sideChannelTimeout = 120 * time.Second

// Config wires the TUI to its backends.
type Config struct {
	// Streamer drives the primary chat session.
	Streamer session.Streamer

	// Client resolves side-channel commands.
	Client *sidechan.Client

	// Model is the initially selected chat model. Models lists the
	// models the user can cycle through; it may be empty.
	Model  string
	Models []string

	// WebSearch enables web search on chat submissions.
	WebSearch bool

	// Logs captures slog output while the TUI owns the terminal.
	// A bounded writer is created when nil.
	Logs *cli.LogWriter
}

// Run starts the TUI and blocks until the user quits.
func Run(cfg Config) error {
	if cfg.Logs == nil {
		cfg.Logs = cli.NewLogWriter(200)
	}
	// The alternate screen belongs to the TUI; route logs to the
	// bounded buffer shown on the log pane instead of stderr.
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(cfg.Logs, nil)))
	defer slog.SetDefault(prev)

	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

type chunkMsg struct {
	chunk *session.Chunk
}

type streamDoneMsg struct {
	err error
}

type sideDoneMsg struct {
	msg *convo.Message
}

type model struct {
	cfg  Config
	sess *session.Session
	exec *timeline.Executor
	rend *timeline.Renderer

	input    textinput.Model
	timeline viewport.Model
	spinner  spinner.Model

	stream    session.Stream
	cancel    context.CancelFunc
	startedAt time.Time

	modelName   string
	webSearch   bool
	pending     int
	showLogs    bool
	attachments []string

	width  int
	height int
	ready  bool

	statusLine string

	headerStyle lipgloss.Style
	helpStyle   lipgloss.Style
	logStyle    lipgloss.Style
}

func newModel(cfg Config) model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 4000
	input.Placeholder = "Chat, or try \"generate image of ...\", \"create tasks for ...\", \"build a page ...\""
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#05ffa1"))

	tl := viewport.New(0, 0)
	tl.MouseWheelEnabled = true
	tl.MouseWheelDelta = 4

	return model{
		cfg:        cfg,
		sess:       session.New(cfg.Streamer),
		exec:       timeline.NewExecutor(cfg.Client),
		rend:       timeline.NewRenderer(timeline.DefaultTheme),
		input:      input,
		timeline:   tl,
		spinner:    sp,
		modelName:  cfg.Model,
		webSearch:  cfg.WebSearch,
		statusLine: "ready",

		headerStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#74c7ec")).Bold(true),
		helpStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")),
		logStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9399b2")),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case chunkMsg:
		m.sess.Apply(msg.chunk)
		m.renderTimeline()
		cmds = append(cmds, m.readChunk())

	case streamDoneMsg:
		m.sess.Finish(msg.err)
		m.closeStream()
		elapsed := cli.FormatDuration(int(time.Since(m.startedAt).Milliseconds()))
		if msg.err != nil {
			m.statusLine = fmt.Sprintf("stream failed after %s: %v", elapsed, msg.err)
		} else {
			m.statusLine = "answered in " + elapsed
		}
		m.renderTimeline()

	case sideDoneMsg:
		m.pending--
		m.exec.Append(msg.msg)
		m.statusLine = "command settled"
		m.renderTimeline()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderTimeline()
		m.ready = true

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.timeline, cmd = m.timeline.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.closeStream()
			return m, tea.Quit

		case "esc":
			m.input.Reset()

		case "enter":
			if cmd := m.submit(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case "ctrl+r":
			if cmd := m.regenerate(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case "tab":
			m.webSearch = !m.webSearch

		case "ctrl+p":
			m.cycleModel()

		case "ctrl+l":
			m.showLogs = !m.showLogs
			m.resize()

		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// submit classifies the input and routes it. Side-channel commands append
// the user turn immediately and resolve in the background; everything
// else goes to the chat session.
func (m *model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())

	if path, ok := strings.CutPrefix(text, "/attach "); ok {
		if path = strings.TrimSpace(path); path != "" {
			m.attachments = append(m.attachments, path)
			m.statusLine = fmt.Sprintf("%d attachment(s) staged", len(m.attachments))
		}
		m.input.Reset()
		return nil
	}

	// An attachment-only submission still makes a turn; it goes down the
	// default path under a placeholder text.
	if text == "" {
		if len(m.attachments) == 0 {
			return nil
		}
		text = timeline.PlaceholderAttachments
	}

	intent := convo.Classify(text)
	if intent != convo.IntentDefault {
		m.input.Reset()
		m.exec.AppendUser(text)
		m.pending++
		m.statusLine = "running " + intent.String() + " command"
		m.renderTimeline()
		return sideChannelCmd(m.exec, intent, text)
	}

	if m.streaming() {
		m.statusLine = "still streaming, hold on"
		return nil
	}
	m.input.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := m.sess.Send(ctx, text, session.Options{Model: m.modelName, WebSearch: m.webSearch})
	if err != nil {
		cancel()
		m.statusLine = "send failed: " + err.Error()
		m.renderTimeline()
		return nil
	}

	m.stream = stream
	m.cancel = cancel
	m.startedAt = time.Now()
	m.attachments = nil
	m.statusLine = "streaming"
	m.renderTimeline()
	return m.readChunk()
}

// regenerate retries the last exchange. Only meaningful once the previous
// stream has settled.
func (m *model) regenerate() tea.Cmd {
	if m.streaming() || len(m.sess.Messages()) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := m.sess.Regenerate(ctx)
	if err != nil {
		cancel()
		m.statusLine = "regenerate failed: " + err.Error()
		return nil
	}

	m.stream = stream
	m.cancel = cancel
	m.startedAt = time.Now()
	m.statusLine = "regenerating"
	m.renderTimeline()
	return m.readChunk()
}

func (m *model) cycleModel() {
	if len(m.cfg.Models) == 0 {
		return
	}
	next := 0
	for i, name := range m.cfg.Models {
		if name == m.modelName {
			next = (i + 1) % len(m.cfg.Models)
			break
		}
	}
	m.modelName = m.cfg.Models[next]
}

func (m *model) streaming() bool {
	s := m.sess.Status()
	return s == session.StatusSubmitted || s == session.StatusStreaming
}

func (m *model) closeStream() {
	if m.stream != nil {
		m.stream.Close()
		m.stream = nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// readChunk pulls the next chunk off the active stream. The stream is
// captured so a stale command cannot touch a newer stream.
func (m *model) readChunk() tea.Cmd {
	stream := m.stream
	return func() tea.Msg {
		c, err := stream.Next()
		if err != nil {
			if errors.Is(err, session.ErrDone) {
				return streamDoneMsg{}
			}
			return streamDoneMsg{err: err}
		}
		return chunkMsg{chunk: c}
	}
}

func sideChannelCmd(exec *timeline.Executor, intent convo.Intent, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sideChannelTimeout)
		defer cancel()
		return sideDoneMsg{msg: exec.Resolve(ctx, intent, text)}
	}
}

func (m *model) renderTimeline() {
	content := m.rend.Render(m.sess.Messages(), m.exec.Messages(), m.sess.Status())
	m.timeline.SetContent(content)
	m.timeline.GotoBottom()
}

func (m *model) resize() {
	chrome := 4 // header, input, help
	if m.showLogs {
		chrome += logPaneLines + 1
	}
	m.timeline.Width = m.width
	m.timeline.Height = max(m.height-chrome, 1)
	m.input.Width = max(m.width-4, 10)
}

const logPaneLines = 6

func (m model) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.timeline.View())
	b.WriteString("\n")
	if m.showLogs {
		b.WriteString(m.logView())
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("enter send · ctrl+r retry · tab web search · ctrl+p model · ctrl+l logs · ctrl+c quit"))
	return b.String()
}

func (m model) headerView() string {
	name := m.modelName
	if name == "" {
		name = "default"
	}
	search := "off"
	if m.webSearch {
		search = "on"
	}
	header := fmt.Sprintf("chatmux · %s · search %s · %s", name, search, m.statusLine)
	if m.streaming() || m.pending > 0 {
		header += " " + m.spinner.View()
	}
	return m.headerStyle.Render(header)
}

func (m model) logView() string {
	var lines []string
	if m.cfg.Logs != nil {
		lines = m.cfg.Logs.Lines()
	}
	if len(lines) > logPaneLines {
		lines = lines[len(lines)-logPaneLines:]
	}
	for len(lines) < logPaneLines {
		lines = append(lines, "")
	}
	return m.logStyle.Render(strings.Join(lines, "\n"))
}
