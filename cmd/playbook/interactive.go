package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/pkg/errors"

	"github.com/spektr-org/playbook/config"
	"github.com/spektr-org/playbook/engine"
	"github.com/spektr-org/playbook/render"
	"github.com/spektr-org/playbook/session"
)

// ============================================================================
// INTERACTIVE — Prompt-driven generate → select → resolve loop
// ============================================================================

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("aborted")

const (
	menuRegenerate = "Regenerate dataset"
	menuQuit       = "Quit"
	menuDone       = "(done)"
	previewRows    = 10
)

// InputConfig configures a text input prompt.
type InputConfig struct {
	Message string
	Default string
	Help    string
}

// SelectConfig configures a single-choice prompt.
type SelectConfig struct {
	Message  string
	Options  []string
	Help     string
	PageSize int
}

// Prompter asks the user questions. The survey implementation talks to the
// terminal; tests script the answers.
type Prompter interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
}

// Replaced in tests.
var newPrompter = func() Prompter { return &surveyPrompter{} }

type surveyPrompter struct{}

func (p *surveyPrompter) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (p *surveyPrompter) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out string
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return 0, translateSurveyErr(err)
	}
	return indexOf(cfg.Options, out), nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

func interactive(action *Action) error {
	sess, err := action.newSession()
	if err != nil {
		return err
	}
	e := &explorer{
		ctx:      action.cmd.Context(),
		prompt:   newPrompter(),
		out:      action.cmd.OutOrStdout(),
		cfg:      action.cfg,
		sess:     sess,
		opts:     action.engineOptions(),
		renderer: action.renderer,
	}
	if e.ctx == nil {
		e.ctx = context.Background()
	}
	err = e.run()
	if errors.Is(err, ErrAborted) {
		return nil
	}
	return err
}

// explorer holds the state of one interactive run.
type explorer struct {
	ctx      context.Context
	prompt   Prompter
	out      io.Writer
	cfg      config.Config
	sess     *session.Session
	opts     []engine.Option
	renderer func(fname string) *render.ChartRenderer
}

func (e *explorer) run() error {
	e.preview()
	for {
		again, err := e.chartLoop()
		if err != nil || !again {
			return err
		}
		if err := e.regenerate(); err != nil {
			return err
		}
		e.preview()
	}
}

func (e *explorer) regenerate() error {
	b := e.cfg.Bounds
	samples, err := e.askInt("Number of samples", e.cfg.Samples, b.MinSamples, b.MaxSamples)
	if err != nil {
		return err
	}
	cols, err := e.askInt("Number of columns", e.cfg.Columns, b.MinColumns, b.MaxColumns)
	if err != nil {
		return err
	}
	e.sess.Regenerate(samples, cols)
	return nil
}

// askInt prompts until the answer is a whole number in [lo, hi]. An empty
// answer takes def.
func (e *explorer) askInt(message string, def, lo, hi int) (int, error) {
	for {
		s, err := e.prompt.Input(e.ctx, InputConfig{
			Message: message,
			Default: strconv.Itoa(def),
			Help:    fmt.Sprintf("a whole number between %d and %d", lo, hi),
		})
		if err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return def, nil
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= lo && n <= hi {
			return n, nil
		}
		fmt.Fprintf(e.out, "Enter a whole number between %d and %d.\n", lo, hi)
	}
}

func (e *explorer) preview() {
	ds := e.sess.Current()
	title := fmt.Sprintf("Dataset v%d (%d rows × %d columns)", e.sess.Version(), ds.Rows(), ds.NumColumns())
	writeTable(e.out, engine.BuildTable(ds, title, previewRows))
}

// chartLoop resolves charts until the user asks for a new dataset (true)
// or quits (false).
func (e *explorer) chartLoop() (bool, error) {
	menu := make([]string, 0, len(engine.ChartKinds)+2)
	for _, k := range engine.ChartKinds {
		menu = append(menu, k.Label())
	}
	menu = append(menu, menuRegenerate, menuQuit)

	for {
		idx, err := e.prompt.Select(e.ctx, SelectConfig{Message: "Chart", Options: menu})
		if err != nil {
			return false, err
		}
		switch {
		case idx < 0 || idx >= len(menu):
			return false, errors.Errorf("invalid menu choice %d", idx)
		case menu[idx] == menuRegenerate:
			return true, nil
		case menu[idx] == menuQuit:
			return false, nil
		}

		cols, err := e.pickColumns()
		if err != nil {
			return false, err
		}
		req := engine.ChartRequest{Kind: engine.ChartKinds[idx], Columns: cols}
		res := e.sess.Resolve(req, e.opts...)
		switch {
		case res.Idle():
			fmt.Fprintln(e.out, idlePrompt)
		case res.Rejection != nil:
			fmt.Fprintf(e.out, "✋ %s\n", res.Rejection.Reason)
		default:
			if err := e.show(res.Instruction); err != nil {
				return false, err
			}
		}
	}
}

// pickColumns asks for columns one at a time, so the answer order is the
// selection order.
func (e *explorer) pickColumns() ([]string, error) {
	remaining := e.sess.Current().ColumnNames()
	var picked []string
	for len(remaining) > 0 {
		options := append(append([]string{}, remaining...), menuDone)
		idx, err := e.prompt.Select(e.ctx, SelectConfig{
			Message: fmt.Sprintf("Column %d", len(picked)+1),
			Options: options,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(remaining) {
			break
		}
		picked = append(picked, remaining[idx])
		remaining = append(remaining[:idx:idx], remaining[idx+1:]...)
	}
	return picked, nil
}

func (e *explorer) show(instr *engine.PlotInstruction) error {
	chart := engine.BuildChart(instr)
	fmt.Fprintf(e.out, "📊 %s\n", chart.Title)
	for _, s := range chart.Series {
		fmt.Fprintf(e.out, "   %s: %d points\n", s.Name, len(s.Data))
	}

	fname, err := e.prompt.Input(e.ctx, InputConfig{
		Message: "Save chart as (.png or .svg, empty to skip)",
	})
	if err != nil {
		return err
	}
	if fname = strings.TrimSpace(fname); fname == "" {
		return nil
	}
	if err := render.RenderFile(e.renderer(fname), fname, instr); err != nil {
		fmt.Fprintf(e.out, "Error: %s\n", err)
		return nil
	}
	fmt.Fprintf(e.out, "Saved %s\n", fname)
	return nil
}
