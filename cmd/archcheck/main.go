package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/viant/archcheck/analyzer"
	"github.com/viant/archcheck/config"
	"github.com/viant/archcheck/inspector/repository"
	"github.com/viant/archcheck/issue"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("archcheck", flag.ContinueOnError)
	flags.SetOutput(stderr)
	root := flags.String("root", "", "project root holding the client and server trees (default: detected from the working directory)")
	checks := flags.String("check", "dependencies,env,dead-code,sockets", "comma separated checks to run")
	quiet := flags.Bool("quiet", false, "suppress progress output, only show errors")
	jsonOnly := flags.Bool("json", false, "print the JSON report only")
	configPath := flags.String("config", "", "YAML file overriding the compiled-in configuration")
	graphPath := flags.String("graph", "", "export the dependency graph as JSON to this location")
	verbose := flags.Bool("v", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	level := zapcore.InfoLevel
	switch {
	case *quiet || *jsonOnly:
		level = zapcore.ErrorLevel
	case *verbose:
		level = zapcore.DebugLevel
	}
	logger := newLogger(stderr, level)
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return 1
	}
	selected, err := analyzer.ParseChecks(*checks)
	if err != nil {
		logger.Error("invalid -check", zap.Error(err))
		return 1
	}
	if cfg.Root, err = projectRoot(*root, cfg); err != nil {
		logger.Error("failed to detect project root", zap.Error(err))
		return 1
	}

	var progress io.Writer = stdout
	if *quiet || *jsonOnly {
		progress = nil
	}
	opts := []analyzer.Option{
		analyzer.WithLogger(logger),
		analyzer.WithChecks(selected...),
		analyzer.WithPrinter(issue.NewPrinter(progress, cfg.DisplayCap)),
	}
	if *graphPath != "" {
		opts = append(opts, analyzer.WithGraphExporter(analyzer.NewFileExporter(*graphPath)))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	result, err := analyzer.New(cfg, opts...).Run(ctx)
	if err != nil {
		logger.Error("analysis failed", zap.Error(err))
		return 1
	}

	switch {
	case *jsonOnly:
		raw, err := issue.NewStore(result.Root, cfg.ReportPath).Raw(ctx)
		if err != nil {
			logger.Error("failed to read report", zap.Error(err))
			return 1
		}
		fmt.Fprintln(stdout, string(raw))
	case *quiet:
		printer := issue.NewPrinter(stdout, cfg.DisplayCap)
		printer.List("Dependency errors", errorsOf(result.Report.Dependency), 0)
		printer.List("Socket errors", errorsOf(result.Report.Protocol), 0)
	}
	if !result.Report.Passed() {
		return 1
	}
	return 0
}

// projectRoot prefers the flag, then a root set by the config overlay, then detection from the working directory
func projectRoot(flagRoot string, cfg *config.Config) (string, error) {
	if flagRoot != "" {
		return flagRoot, nil
	}
	if cfg.Root != "" && cfg.Root != "." {
		return cfg.Root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	project, err := repository.New(cfg.ClientDir, cfg.ServerDir).DetectProject(wd)
	if err != nil {
		return "", err
	}
	return project.Root, nil
}

func errorsOf(issues []*issue.Issue) []*issue.Issue {
	var ret []*issue.Issue
	for _, item := range issues {
		if item.Severity == issue.SeverityError {
			ret = append(ret, item)
		}
	}
	return ret
}

func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core)
}
