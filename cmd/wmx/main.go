package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"wmx/cells"
	"wmx/config"
	"wmx/parser"
	"wmx/wxmx"
)

const appName = "wmx"

const version = "1.0.0"

// env carries per-invocation state between the cli hooks and the
// subcommands.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

type envKeyType int

const envKey envKeyType = 0

func envFromContext(ctx context.Context) *env {
	return ctx.Value(envKey).(*env)
}

// initializeAppContext prepares configuration and logging after the command
// line has been parsed but before command execution.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	e := envFromContext(ctx)

	var err error
	configFile := cmd.String("config")
	if e.cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if e.log, err = e.cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}

	e.log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", version), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		e.log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	if e.log != nil {
		e.log.Debug("Program ended", zap.Strings("parsed args", cmd.Args().Slice()))
		_ = e.log.Sync()
	}
	return nil
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	e := envFromContext(ctx)
	if e.log != nil {
		e.log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.WithValue(context.Background(), envKey, &env{}),
		os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            appName,
		Usage:           "worksheet processor for wxMathML documents",
		Version:         version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
		},
		Commands: []*cli.Command{
			{
				Name:         "export",
				Usage:        "Renders a worksheet to the specified format",
				OnUsageError: usageErrorHandler,
				Action:       runExport,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text",
						Usage: "output `FORMAT` (supported formats: text, tex, xml, tree)"},
				},
				ArgsUsage: "SOURCE [DESTINATION]",
			},
			{
				Name:         "images",
				Usage:        "Lists files embedded in a worksheet archive",
				OnUsageError: usageErrorHandler,
				Action:       runImages,
				ArgsUsage:    "SOURCE",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return fmt.Errorf("no worksheet to export")
	}
	format := cmd.String("format")
	switch format {
	case "text", "tex", "xml", "tree":
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}

	doc, err := wxmx.Load(src, e.cfg, notifier(e.log), e.log)
	if err != nil {
		return fmt.Errorf("unable to load worksheet: %w", err)
	}
	defer doc.Close()

	var out string
	switch format {
	case "text":
		out = cells.ChainString(doc.Tree)
	case "tex":
		out = cells.ChainTeX(doc.Tree)
	case "tree":
		out = cells.DumpTree(doc.Tree)
	case "xml":
		if err := wxmx.Save(doc, deriveOutputPath(cmd.Args().Get(1), src), e.log); err != nil {
			return fmt.Errorf("unable to save worksheet: %w", err)
		}
		e.log.Info("Worksheet exported", zap.String("source", src))
		return nil
	}
	return writeOutput(cmd.Args().Get(1), out)
}

func runImages(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return fmt.Errorf("no worksheet to inspect")
	}

	doc, err := wxmx.Load(src, e.cfg, notifier(e.log), e.log)
	if err != nil {
		return fmt.Errorf("unable to load worksheet: %w", err)
	}
	defer doc.Close()

	if doc.Resolver == nil {
		e.log.Info("Worksheet carries no embedded files", zap.String("source", src))
		return nil
	}
	for _, name := range doc.Resolver.List() {
		fmt.Println(name)
	}
	return nil
}

// notifier routes parse warnings to the user through the log.
func notifier(log *zap.Logger) parser.Notifier {
	return parser.NotifierFunc(func(msg string) {
		log.Warn(msg)
	})
}

func deriveOutputPath(dst, src string) string {
	if len(dst) != 0 {
		return dst
	}
	if i := strings.LastIndex(src, "."); i > 0 {
		return src[:i] + "-out" + src[i:]
	}
	return src + "-out"
}

func writeOutput(dst, out string) error {
	if len(dst) == 0 {
		fmt.Println(out)
		return nil
	}
	return os.WriteFile(dst, []byte(out), 0644)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		e.log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	cfg := e.cfg
	if cmd.Bool("default") {
		cfg = config.Defaults()
	}
	data, err := config.Dump(cfg)
	if err != nil {
		return fmt.Errorf("unable to serialize configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		fmt.Print(string(data))
		return nil
	}
	return os.WriteFile(fname, data, 0644)
}
