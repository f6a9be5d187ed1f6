// Command sso is the REPL entry point (spec §6): a cobra root command that
// loads the INI config, then reads statements from stdin, feeding each one
// through internal/dsl, internal/eval, and internal/dispatch, with the
// shell built-ins (`exit`, `quit`, `help`, `! <command>`) intercepted
// before the line ever reaches the parser — the same routing original
// repl.py's cmd.Cmd.default() does between its do_* verbs and the DSL.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tendosso/sso/internal/audit"
	"github.com/tendosso/sso/internal/config"
	"github.com/tendosso/sso/internal/dispatch"
	"github.com/tendosso/sso/internal/dsl"
	"github.com/tendosso/sso/internal/env"
	"github.com/tendosso/sso/internal/ephemeris"
	"github.com/tendosso/sso/internal/errs"
	"github.com/tendosso/sso/internal/eval"
	"github.com/tendosso/sso/internal/helptext"
	"github.com/tendosso/sso/internal/obs"
	"github.com/tendosso/sso/internal/value"
)

var (
	flagConfig string
	flagTz     float64
	flagTzSet  bool
	flagHere   string
	flagEcho   string
)

func main() {
	root := &cobra.Command{
		Use:   "sso",
		Short: "Solar System Observer — an interactive celestial-observation DSL",
		Long: `sso is an interactive shell for a small DSL that observes celestial bodies,
computes rise/transit/set times, inter-location geometry, and lunar eclipse
windows, in the tradition of the original Solar System Observer tool.`,
		RunE: runREPL,
	}
	root.Flags().StringVar(&flagConfig, "config", "", "path to the INI config file")
	root.Flags().Float64Var(&flagTz, "tz", 0, "override the configured timezone offset (hours)")
	root.Flags().StringVar(&flagHere, "here", "", "override Here as \"lat,lon,elev\" (degrees, degrees, metres)")
	root.Flags().StringVar(&flagEcho, "echo", "", "override Echo (Yes/No)")
	root.PreRun = func(cmd *cobra.Command, args []string) {
		flagTzSet = cmd.Flags().Changed("tz")
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runREPL(cmd *cobra.Command, args []string) error {
	cfgFile, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal: failed to load config:", err)
		os.Exit(1)
	}

	e := env.New()
	if err := cfgFile.Apply(e); err != nil {
		fmt.Fprintln(os.Stderr, "fatal: invalid config:", err)
		os.Exit(1)
	}
	if flagTzSet {
		if err := e.SetTz(flagTz); err != nil {
			fmt.Fprintln(os.Stderr, "warning: --tz ignored:", err)
		}
	}
	if flagEcho != "" {
		e.Echo = flagEcho
	}
	if flagHere != "" {
		if obv, ok := parseHereFlag(flagHere); ok {
			e.Here = obv
			e.DefaultHere = obv
		} else {
			fmt.Fprintln(os.Stderr, `warning: --here ignored, expected "lat,lon,elev"`)
		}
	}

	obs.Init(e.Log != "No", logLevel(e.Log))
	trail := audit.New()

	adapter := ephemeris.NewEngine()
	out := cmd.OutOrStdout()
	disp := dispatch.New(adapter, e, out)
	in := bufio.NewReader(cmd.InOrStdin())
	evaluator := eval.New(e, disp, out, in)

	fmt.Fprintln(out, "Type 'help' for commands, 'exit' to quit.")

	// One shared bufio.Reader drives both line-at-a-time REPL input and the
	// interactive Date()/Observer() prompt fallback (evaluator.In); a
	// second independent reader over the same stdin would silently drop
	// whichever bytes the other one had already buffered.
	var pending strings.Builder
	for {
		if pending.Len() == 0 {
			fmt.Fprint(out, "sso> ")
		} else {
			fmt.Fprint(out, "...> ")
		}
		raw, err := in.ReadString('\n')
		if err != nil && raw == "" {
			break
		}
		line := strings.TrimRight(raw, "\n")
		line = strings.TrimRight(line, "\r")

		if pending.Len() == 0 {
			if handled := runBuiltin(out, e, line); handled {
				if line == "exit" || line == "quit" {
					return nil
				}
				continue
			}
		}

		trimmed := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmed, `\`) {
			pending.WriteString(strings.TrimSuffix(trimmed, `\`))
			pending.WriteString("\n")
			continue
		}
		pending.WriteString(line)
		stmtRaw := pending.String()
		pending.Reset()

		runStatement(evaluator, trail, stmtRaw)
	}
	return nil
}

// runBuiltin intercepts the shell built-ins spec §6 names before the DSL
// parser ever sees the line. It reports whether it consumed the line.
func runBuiltin(out io.Writer, e *env.Environment, line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "exit", trimmed == "quit":
		return true
	case trimmed == "help":
		fmt.Fprintln(out, helptext.General)
		return true
	case strings.HasPrefix(trimmed, "help "):
		topic := strings.TrimSpace(strings.TrimPrefix(trimmed, "help "))
		fmt.Fprintln(out, helptext.Topic(topic))
		return true
	case strings.HasPrefix(trimmed, "!"):
		cmdline := strings.TrimSpace(strings.TrimPrefix(trimmed, "!"))
		if cmdline == "" {
			return true
		}
		c := exec.Command("sh", "-c", cmdline)
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			fmt.Fprintln(os.Stderr, "! :", err)
		}
		return true
	}
	return false
}

// runStatement parses and evaluates one buffered statement. A statement
// spans several lines only through the trailing-backslash continuation
// above; a Parse error, including one at end of input, is reported and the
// buffered text is discarded, not kept for further lines. Any error aborts
// just this statement and leaves the environment intact.
func runStatement(evaluator *eval.Evaluator, trail *audit.Trail, raw string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}
	start := time.Now()
	prog, err := dsl.Parse(trimmed)
	if err != nil {
		trail.Statement(trimmed, "", err, time.Since(start))
		printError(evaluator, err)
		return
	}
	v, err := evaluator.Run(prog)
	dur := time.Since(start)
	if err != nil {
		trail.Statement(trimmed, "", err, dur)
		printError(evaluator, err)
		return
	}
	trail.Statement(trimmed, v.String(), nil, dur)
}

func printError(evaluator *eval.Evaluator, err error) {
	if k, ok := errs.KindOf(err); ok {
		fmt.Fprintf(evaluator.Out, "error [%s]: %v\n", k, err)
		return
	}
	fmt.Fprintln(evaluator.Out, "error:", err)
}

// parseHereFlag parses "--here lat,lon,elev" (degrees, degrees, metres),
// the same triple Observer(lat, lon, elev) takes inside the DSL.
func parseHereFlag(s string) (value.Observer, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return value.Observer{}, false
	}
	nums := make([]float64, 3)
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return value.Observer{}, false
		}
		nums[i] = n
	}
	return value.Observer{
		Name:      "Here",
		Lat:       nums[0] * math.Pi / 180,
		Lon:       nums[1] * math.Pi / 180,
		Elevation: nums[2],
	}, true
}

func logLevel(log string) slog.Level {
	switch strings.ToLower(log) {
	case "no", "":
		return slog.LevelWarn
	case "yes":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
