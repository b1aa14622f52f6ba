package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
)

// UserPrompt is shown before each new submission
const UserPrompt = "\nuser:\n> "

const helpText = `Commands:
  /model <id>     switch model, keeping the conversation
  /list           list available models
  /clear          forget the conversation
  /save <path>    write the conversation to a JSON file
  /load <path>    replace the conversation with a saved one
  /history        edit the conversation in your editor
  /editor         compose the next prompt in your editor
  /help           show this help
  /quit, /exit    leave

End a line with \ to continue typing on the next line.`

// TextEditor hands text to the user for editing. Edit starts from an empty
// prompt file; EditFile edits a named scratch file seeded with initial.
type TextEditor interface {
	Edit(ctx context.Context) (string, error)
	EditFile(ctx context.Context, name string, initial *string) (string, error)
}

type commandKind int

const (
	cmdChat commandKind = iota
	cmdQuit
	cmdModel
	cmdList
	cmdClear
	cmdSave
	cmdLoad
	cmdHistory
	cmdEditor
	cmdHelp
)

var commandKeywords = map[string]commandKind{
	"/quit":    cmdQuit,
	"/exit":    cmdQuit,
	"/model":   cmdModel,
	"/list":    cmdList,
	"/clear":   cmdClear,
	"/save":    cmdSave,
	"/load":    cmdLoad,
	"/history": cmdHistory,
	"/editor":  cmdEditor,
	"/help":    cmdHelp,
}

type command struct {
	kind commandKind
	arg  string
}

// parseCommand recognizes a command keyword in the first word of input.
// Keywords match case-insensitively; the argument is the second word,
// verbatim. Anything else is chat.
func parseCommand(input string) command {
	fields := strings.Fields(input)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return command{kind: cmdChat}
	}
	kind, ok := commandKeywords[strings.ToLower(fields[0])]
	if !ok {
		return command{kind: cmdChat}
	}
	cmd := command{kind: kind}
	if len(fields) > 1 {
		cmd.arg = fields[1]
	}
	return cmd
}

// ControllerOptions wires a Controller to its collaborators
type ControllerOptions struct {
	Service ChatService
	// Models answers /list; nil means Service is asked directly.
	Models   ModelLister
	Input    *InputAccumulator
	Editor   TextEditor
	Recorder PromptRecorder

	Out io.Writer
	Err io.Writer

	// SystemPrompt only affects the banner.
	SystemPrompt bool
}

// Controller drives one interactive chat. It is the only owner of the
// Session; every command replaces the Session value as a whole.
type Controller struct {
	session      Session
	service      ChatService
	models       ModelLister
	input        *InputAccumulator
	editor       TextEditor
	recorder     PromptRecorder
	printer      *Printer
	out          io.Writer
	systemPrompt bool
	savedMark    string
}

// NewController creates a controller starting from session
func NewController(session Session, opts ControllerOptions) *Controller {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}
	models := opts.Models
	if models == nil {
		models = opts.Service
	}
	input := opts.Input
	if input == nil {
		input = NewInputAccumulator(os.Stdin, out)
	}

	return &Controller{
		session:      session,
		service:      opts.Service,
		models:       models,
		input:        input,
		editor:       opts.Editor,
		recorder:     opts.Recorder,
		printer:      NewPrinter(out, errOut),
		out:          out,
		systemPrompt: opts.SystemPrompt,
		savedMark:    Fingerprint(session.History.Turns()),
	}
}

// Session returns the current session snapshot
func (c *Controller) Session() Session {
	return c.session
}

// Run reads and executes submissions until the user quits or input ends.
// Command failures are reported and the loop continues.
func (c *Controller) Run(ctx context.Context) error {
	RenderBanner(c.out, c.session.ModelID, c.systemPrompt)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := c.input.Read(UserPrompt)
		if errors.Is(err, ErrInputClosed) {
			fmt.Fprintln(c.out)
			c.finish()
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := c.Execute(ctx, line)
		if err != nil {
			c.report(err)
		}
		if quit {
			c.finish()
			return nil
		}
	}
}

// Execute applies one submission to the session. quit reports whether the
// loop should stop.
func (c *Controller) Execute(ctx context.Context, input string) (quit bool, err error) {
	cmd := parseCommand(input)
	switch cmd.kind {
	case cmdQuit:
		return true, nil
	case cmdModel:
		return false, c.switchModel(cmd.arg)
	case cmdList:
		return false, c.listModels(ctx)
	case cmdClear:
		c.session = c.session.Cleared()
		c.printer.Success("History cleared")
		return false, nil
	case cmdSave:
		return false, c.save(cmd.arg)
	case cmdLoad:
		return false, c.load(cmd.arg)
	case cmdHistory:
		return false, c.editHistory(ctx)
	case cmdEditor:
		return false, c.compose(ctx)
	case cmdHelp:
		fmt.Fprintln(c.out, helpText)
		return false, nil
	default:
		return false, c.send(ctx, input)
	}
}

func (c *Controller) switchModel(modelID string) error {
	if modelID == "" {
		return &UsageError{Command: "/model", Usage: "/model <model-id>"}
	}
	c.session = c.session.WithModel(modelID)
	c.printer.Success(fmt.Sprintf("Switched to model %s", modelID))
	return nil
}

func (c *Controller) listModels(ctx context.Context) error {
	var models []ModelInfo
	err := c.printer.ShowProgress(ctx, "Fetching models", func() error {
		var err error
		models, err = c.models.ListModels(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	for _, m := range models {
		marker := "  "
		if m.Name == c.session.ModelID {
			marker = "* "
		}
		line := marker + m.Name
		if m.DisplayName != "" {
			line += " " + mutedStyle.Render("("+m.DisplayName+")")
		}
		fmt.Fprintln(c.out, line)
	}
	return nil
}

func (c *Controller) save(path string) error {
	if path == "" {
		return &UsageError{Command: "/save", Usage: "/save <path>"}
	}
	turns := c.session.History.Turns()
	if err := SaveHistory(path, turns); err != nil {
		return err
	}
	c.savedMark = Fingerprint(turns)
	c.printer.Success(fmt.Sprintf("Saved %d turn(s) to %s", len(Compact(turns)), path))
	return nil
}

func (c *Controller) load(path string) error {
	if path == "" {
		return &UsageError{Command: "/load", Usage: "/load <path>"}
	}
	turns, err := LoadHistory(path)
	if err != nil {
		return err
	}
	c.session = c.session.WithHistory(turns)
	c.savedMark = Fingerprint(turns)
	c.printer.Success(fmt.Sprintf("Loaded %d turn(s) from %s", len(turns), path))
	for _, t := range LastExchange(turns) {
		RenderTurn(c.out, 0, 0, t)
	}
	return nil
}

func (c *Controller) editHistory(ctx context.Context) error {
	if c.editor == nil {
		return &EditorError{Op: "launch", Err: errors.New("no editor configured")}
	}
	data, err := EncodeHistory(Compact(c.session.History.Turns()))
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}
	initial := string(data)

	edited, err := c.editor.EditFile(ctx, HistoryFileName, &initial)
	if err != nil {
		return err
	}
	turns, err := DecodeHistory([]byte(edited))
	if err != nil {
		return &HistoryParseError{Err: err}
	}
	c.session = c.session.WithHistory(turns)
	c.printer.Success(fmt.Sprintf("History replaced (%d turn(s))", len(turns)))
	return nil
}

func (c *Controller) compose(ctx context.Context) error {
	if c.editor == nil {
		return &EditorError{Op: "launch", Err: errors.New("no editor configured")}
	}
	prompt, err := c.editor.Edit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, prompt)
	return c.send(ctx, prompt)
}

// send runs one exchange. The user turn is appended before the service is
// called; reply pieces grow a single model turn and stay in the history
// when the stream fails. Ctrl-C cancels only this exchange.
func (c *Controller) send(ctx context.Context, prompt string) error {
	modelID := c.session.ModelID
	prior := c.session.History.Turns()
	c.session = c.session.WithTurns(c.session.History.Append(NewTextTurn(RoleUser, prompt)))

	if c.recorder != nil {
		if err := c.recorder.Record(ctx, modelID, prompt); err != nil {
			LogWarn("Failed to record prompt: %v", err)
		}
	}

	streamCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, RoleLabel(RoleModel))

	received := 0
	var streamErr error
	for piece, err := range c.service.Stream(streamCtx, modelID, prior, prompt) {
		if err != nil {
			streamErr = err
			break
		}
		if piece == "" {
			continue
		}
		history := c.session.History
		if received == 0 {
			history = history.Append(NewTextTurn(RoleModel, piece))
		} else {
			history = history.ExtendLast(piece)
		}
		c.session = c.session.WithTurns(history)
		received++
		fmt.Fprint(c.out, piece)
	}
	fmt.Fprintln(c.out)

	if streamErr == nil {
		streamErr = streamCtx.Err()
	}
	if streamErr != nil {
		return &StreamError{Model: modelID, Received: received, Err: streamErr}
	}
	LogDebug("Received %d piece(s) from %s", received, modelID)
	return nil
}

func (c *Controller) report(err error) {
	LogDebug("Command failed: %v", err)

	var streamErr *StreamError
	if errors.As(err, &streamErr) && errors.Is(err, context.Canceled) {
		c.printer.Warning(fmt.Sprintf("Reply interrupted after %d piece(s)", streamErr.Received))
		return
	}
	c.printer.Error(err.Error())
}

func (c *Controller) finish() {
	turns := c.session.History.Turns()
	if len(turns) > 0 && Fingerprint(turns) != c.savedMark {
		c.printer.Warning("Conversation has unsaved changes")
	}
	fmt.Fprintln(c.out, "Bye!")
}
