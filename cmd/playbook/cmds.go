package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/spektr-org/playbook/config"
	"github.com/spektr-org/playbook/dataset"
	"github.com/spektr-org/playbook/engine"
	"github.com/spektr-org/playbook/helpers"
	"github.com/spektr-org/playbook/logx"
	"github.com/spektr-org/playbook/render"
	"github.com/spektr-org/playbook/schema"
	"github.com/spektr-org/playbook/session"
)

const idlePrompt = "Select one or more columns to plot."

// Replaced in tests.
var osExit = os.Exit

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dataset and print it",
		Args:  cobra.NoArgs,
		Run:   run(generate)}
	cmd.Flags().String("format", "table", "output format: table, csv, json or pretty")
	cmd.Flags().StringP("out", "o", "", "write output to file instead of stdout")
	cmd.Flags().Int("limit", 20, "rows shown by the table format, 0 for all")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "describe",
		Short: "Describe the columns of a dataset",
		Args:  cobra.NoArgs,
		Run:   run(describe)}
	cmd.Flags().String("format", "pretty", "output format: text, json or pretty")
	cmd.Flags().StringP("out", "o", "", "write output to file instead of stdout")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a chart request against a dataset",
		Args:  cobra.NoArgs,
		Run:   run(resolve)}
	addChartFlags(cmd)
	cmd.Flags().String("format", "pretty", "output format: json, pretty or csv")
	cmd.Flags().StringP("out", "o", "", "write output to file instead of stdout")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "render",
		Short: "Resolve a chart request and draw it to an image file",
		Args:  cobra.NoArgs,
		Run:   run(renderChart)}
	addChartFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "image file, .png or .svg (required)")
	cmd.MarkFlagRequired("out")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "interactive",
		Short: "Generate datasets and build charts from prompts",
		Args:  cobra.NoArgs,
		Run:   run(interactive)}
	root.AddCommand(cmd)
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("chart", "c", "", "chart kind: histogram, bar, scatter, pie or trend (required)")
	cmd.MarkFlagRequired("chart")
	cmd.Flags().StringSliceP("select", "s", nil, "selected columns, in order")
	cmd.Flags().StringArrayP("where", "w", nil, "row filter Column=value[,value...], repeatable")
	cmd.Flags().Int("bins", -1, "histogram bins, 0 for Sturges' rule (default: from config)")
}

// ============================================================================
// ACTION — State used when processing a command
// ============================================================================

type Action struct {
	cmd   *cobra.Command
	quiet bool
	cfg   config.Config
	start time.Time
}

func newAction(cmd *cobra.Command) (*Action, error) {
	a := &Action{cmd: cmd, start: time.Now()}
	a.quiet = a.getBool("quiet")
	cfg, err := a.loadConfig()
	if err != nil {
		return a, err
	}
	a.cfg = cfg
	return a, nil
}

func run(fn func(*Action) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		action, err := newAction(cmd)
		if err == nil {
			err = fn(action)
		}
		action.Exit(err)
	}
}

func (a *Action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *Action) getInt(name string) int {
	result, _ := a.cmd.Flags().GetInt(name)
	return result
}

func (a *Action) getInt64(name string) int64 {
	result, _ := a.cmd.Flags().GetInt64(name)
	return result
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *Action) getStringArray(name string) []string {
	result, _ := a.cmd.Flags().GetStringArray(name)
	return result
}

func (a *Action) getStringSlice(name string) []string {
	result, _ := a.cmd.Flags().GetStringSlice(name)
	return result
}

// loadConfig reads the config file and applies flag overrides.
func (a *Action) loadConfig() (config.Config, error) {
	cfg, err := config.Load(a.getString("config"), a.getString("profile"))
	if err != nil {
		return cfg, err
	}
	flags := a.cmd.Flags()
	if flags.Changed("samples") {
		cfg.Samples = a.getInt("samples")
	}
	if flags.Changed("cols") {
		cfg.Columns = a.getInt("cols")
	}
	if flags.Changed("seed") {
		cfg.Seed = a.getInt64("seed")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.getString("log-level")
	} else if a.quiet {
		cfg.LogLevel = "warn"
	}
	if flags.Changed("bins") {
		cfg.HistogramBins = a.getInt("bins")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	logx.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func (a *Action) engineOptions() []engine.Option {
	return []engine.Option{
		engine.WithCategoryLimit(a.cfg.CategoryLimit),
		engine.WithHistogramBins(a.cfg.HistogramBins),
	}
}

// newSession returns a session holding either the --from dataset or a
// freshly generated one.
func (a *Action) newSession() (*session.Session, error) {
	seed := a.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logx.Debugf("🎲 Playbook: seed %d", seed)
	sess := session.New(dataset.NewGenerator(rand.NewSource(seed)))

	if fname := a.getString("from"); fname != "" {
		data, err := os.ReadFile(fname)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", fname)
		}
		ds, err := helpers.ParseDatasetCSV(data)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load %s", fname)
		}
		sess.Replace(ds)
		return sess, nil
	}

	sess.Regenerate(a.cfg.Samples, a.cfg.Columns)
	return sess, nil
}

// renderer draws at the configured size, in the format named by the file
// extension or else the configured one.
func (a *Action) renderer(fname string) *render.ChartRenderer {
	fallback, _ := render.ParseFormat(a.cfg.Render.Format)
	return render.New(
		render.WithSize(a.cfg.Render.Width, a.cfg.Render.Height),
		render.WithFormat(render.FormatForPath(fname, fallback)),
	)
}

// output returns the --out file, or stdout when it is not set.
func (a *Action) output() (io.Writer, func() error, error) {
	fname := a.getString("out")
	if fname == "" {
		return a.cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(fname)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create %s", fname)
	}
	return f, f.Close, nil
}

// Show the action banner message.
func (a *Action) Start(format string, args ...interface{}) *Action {
	if a.quiet {
		return a
	}
	fmt.Fprintf(a.cmd.ErrOrStderr(), format+" .. ", args...)
	return a
}

func (a *Action) Append(format string, args ...interface{}) *Action {
	if a.quiet {
		return a
	}
	fmt.Fprintf(a.cmd.ErrOrStderr(), format, args...)
	return a
}

// Exit reports err and exits non-zero. Rejections were already printed
// with the command's output.
func (a *Action) Exit(err error) {
	if err == nil {
		return
	}
	var rej *engine.Rejection
	if !errors.As(err, &rej) {
		fmt.Fprintf(a.cmd.ErrOrStderr(), "Error: %s\n", rtrimEol(err.Error()))
	}
	osExit(1)
}

func rtrimEol(value string) string {
	return strings.TrimRight(value, "\r\n")
}

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return errors.Errorf("unknown format '%s', want %s", format, strings.Join(allowed, ", "))
}

// ============================================================================
// OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, format string) error {
	e := json.NewEncoder(w)
	if format == "pretty" {
		e.SetIndent("", "  ")
	}
	return e.Encode(v)
}

func writeTable(w io.Writer, table *engine.TableData) error {
	if table.Title != "" {
		fmt.Fprintln(w, table.Title)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	labels := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		labels[i] = c.Label
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))
	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if more := table.TotalRows - len(table.Rows); more > 0 {
		fmt.Fprintf(w, "... %d more rows\n", more)
	}
	return nil
}

// ============================================================================
// GENERATE
// ============================================================================

func generate(action *Action) error {
	format := action.getString("format")
	if err := checkFormat(format, "table", "csv", "json", "pretty"); err != nil {
		return err
	}
	sess, err := action.newSession()
	if err != nil {
		return err
	}
	ds := sess.Current()

	w, done, err := action.output()
	if err != nil {
		return err
	}
	switch format {
	case "table":
		title := fmt.Sprintf("Synthetic sports dataset (%d rows × %d columns)", ds.Rows(), ds.NumColumns())
		err = writeTable(w, engine.BuildTable(ds, title, action.getInt("limit")))
	case "csv":
		err = helpers.WriteDatasetCSV(w, ds)
	default:
		err = writeJSON(w, ds, format)
	}
	if cerr := done(); err == nil {
		err = cerr
	}
	return err
}

// ============================================================================
// DESCRIBE
// ============================================================================

type describeOutput struct {
	Schema  *schema.Config         `json:"schema"`
	Columns []engine.ColumnSummary `json:"columns"`
}

func describe(action *Action) error {
	format := action.getString("format")
	if err := checkFormat(format, "text", "json", "pretty"); err != nil {
		return err
	}
	sess, err := action.newSession()
	if err != nil {
		return err
	}
	ds := sess.Current()

	opts := schema.DefaultDescribeOptions()
	opts.EngineOptions = action.engineOptions()
	out := describeOutput{
		Schema:  schema.Describe(ds, opts),
		Columns: engine.Describe(ds),
	}

	w, done, err := action.output()
	if err != nil {
		return err
	}
	if format == "text" {
		err = writeDescription(w, out)
	} else {
		err = writeJSON(w, out, format)
	}
	if cerr := done(); err == nil {
		err = cerr
	}
	return err
}

func writeDescription(w io.Writer, out describeOutput) error {
	fmt.Fprintf(w, "%s: %s\n", out.Schema.Name, out.Schema.Summary())
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Column\tKind\tSummary\tCharts")
	for _, c := range out.Columns {
		var summary string
		if c.Kind == engine.Quantitative && c.Mean != nil {
			summary = fmt.Sprintf("mean %s, std %s, min %s, max %s",
				engine.FormatNumber(*c.Mean), engine.FormatNumber(*c.Std),
				engine.FormatNumber(*c.Min), engine.FormatNumber(*c.Max))
		} else {
			summary = fmt.Sprintf("%d unique, top %q (%d)", c.Unique, c.Top, c.Freq)
		}
		charts := make([]string, 0)
		for _, k := range out.Schema.ChartsFor(c.Name) {
			charts = append(charts, string(k))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Kind, summary, strings.Join(charts, ","))
	}
	return tw.Flush()
}

// ============================================================================
// RESOLVE / RENDER
// ============================================================================

type resolveOutput struct {
	Request    engine.ChartRequest `json:"request"`
	Filters    engine.Filters      `json:"filters"`
	Resolution engine.Resolution   `json:"resolution"`
	Chart      *engine.ChartConfig `json:"chart,omitempty"`
}

// chartRequest builds the request and filters from the chart flags. An
// unrecognized chart name is passed through for the resolver to reject.
func (a *Action) chartRequest() (engine.ChartRequest, engine.Filters, error) {
	name := a.getString("chart")
	kind, err := engine.ParseChartKind(name)
	if err != nil {
		kind = engine.ChartKind(name)
	}
	req := engine.ChartRequest{Kind: kind}
	for _, c := range a.getStringSlice("select") {
		if c = strings.TrimSpace(c); c != "" {
			req.Columns = append(req.Columns, c)
		}
	}

	var filters engine.Filters
	for _, expr := range a.getStringArray("where") {
		f, err := engine.ParseFilter(expr)
		if err != nil {
			return req, filters, err
		}
		filters = filters.Merge(f)
	}
	return req, filters, nil
}

func (a *Action) resolveChart() (engine.ChartRequest, engine.Filters, engine.Resolution, error) {
	req, filters, err := a.chartRequest()
	if err != nil {
		return req, filters, engine.Resolution{}, err
	}
	sess, err := a.newSession()
	if err != nil {
		return req, filters, engine.Resolution{}, err
	}
	return req, filters, sess.ResolveFiltered(req, filters, a.engineOptions()...), nil
}

func resolve(action *Action) error {
	format := action.getString("format")
	if err := checkFormat(format, "json", "pretty", "csv"); err != nil {
		return err
	}
	req, filters, res, err := action.resolveChart()
	if err != nil {
		return err
	}

	w, done, err := action.output()
	if err != nil {
		return err
	}
	switch {
	case format != "csv":
		out := resolveOutput{Request: req, Filters: filters, Resolution: res}
		if res.Instruction != nil {
			out.Chart = engine.BuildChart(res.Instruction)
		}
		err = writeJSON(w, out, format)
	case res.Idle():
		_, err = fmt.Fprintln(w, idlePrompt)
	case res.Rejection != nil:
		_, err = fmt.Fprintln(w, res.Rejection.Reason)
	default:
		err = helpers.WriteInstructionCSV(w, res.Instruction)
	}
	if cerr := done(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return res.Err()
}

func renderChart(action *Action) error {
	_, _, res, err := action.resolveChart()
	if err != nil {
		return err
	}
	out := action.cmd.OutOrStdout()
	switch {
	case res.Idle():
		fmt.Fprintln(out, idlePrompt)
		return nil
	case res.Rejection != nil:
		fmt.Fprintln(out, res.Rejection.Reason)
		return res.Err()
	}

	fname := action.getString("out")
	action.Start("Render %s to '%s'", res.Instruction.Kind, fname)
	if err := render.RenderFile(action.renderer(fname), fname, res.Instruction); err != nil {
		action.Append("failed\n")
		return err
	}
	action.Append("Ok (%.1fs)\n", time.Since(action.start).Seconds())
	return nil
}
