package analyzer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/viant/afs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/viant/archcheck/config"
	"github.com/viant/archcheck/envcheck"
	"github.com/viant/archcheck/graph"
	"github.com/viant/archcheck/inspector"
	"github.com/viant/archcheck/inspector/repository"
	"github.com/viant/archcheck/issue"
	"github.com/viant/archcheck/resolver"
)

const (
	sideClient = "client"
	sideServer = "server"
)

// Analyzer runs the selected architecture checks over one project
type Analyzer struct {
	config        *config.Config
	fs            afs.Service
	inspector     *inspector.Inspector
	logger        *zap.Logger
	printer       *issue.Printer
	checks        map[Check]bool
	graphExporter GraphExporter
}

// Result is everything a run produced
type Result struct {
	Root      string
	Project   *repository.Project
	Sides     []*repository.Side
	Graph     *graph.Graph
	Report    *issue.Report
	ReportURL string
}

// source is one discovered file after the load phase
type source struct {
	path   string
	data   []byte
	usages []envcheck.Usage
}

// New creates an analyzer; every check runs unless WithChecks narrows the selection
func New(cfg *config.Config, opts ...Option) *Analyzer {
	ret := &Analyzer{config: cfg, logger: zap.NewNop()}
	WithChecks(AllChecks()...)(ret)
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.printer == nil {
		ret.printer = issue.NewPrinter(nil, cfg.DisplayCap)
	}
	if ret.inspector == nil {
		inspectorOpts := []inspector.Option{inspector.WithLogger(ret.logger)}
		if cfg.DisableTree {
			inspectorOpts = append(inspectorOpts, inspector.WithoutTree())
		}
		ret.inspector = inspector.New(inspectorOpts...)
	}
	return ret
}

// Run discovers, parses and checks the project, then persists the report.
// Only a missing root or an invalid configuration is returned as an error.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	root, err := filepath.Abs(a.config.Root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.config.Root, config.ErrRootNotFound)
	}
	if object, err := a.fs.Object(ctx, root); err != nil || !object.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, config.ErrRootNotFound)
	}
	project := repository.New(a.config.ClientDir, a.config.ServerDir).Describe(root)
	a.printer.Phase("Architecture Analysis: " + project.Name)
	a.logger.Info("analyzing project", zap.String("root", root), zap.String("name", project.Name), zap.String("type", project.Type), zap.Any("checks", a.selected()))

	ret := &Result{Root: root, Project: project}
	ret.Sides = a.discover(ctx, root)
	var files []string
	for _, side := range ret.Sides {
		files = append(files, side.Files...)
	}
	sort.Strings(files)

	builder := graph.NewBuilder()
	if err = builder.AddNode(files...); err != nil {
		return nil, fmt.Errorf("failed to register modules: %w", err)
	}
	sources := a.load(ctx, root, files, builder)
	if ret.Graph, err = builder.Build(); err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	a.printer.Printf("Built graph with %d nodes and %d edges", ret.Graph.NodeCount(), ret.Graph.EdgeCount())

	collector := &issue.Collector{}
	if a.checks[CheckDependencies] {
		if err = a.checkDependencies(ret.Graph, collector); err != nil {
			return nil, err
		}
	}
	if a.checks[CheckEnv] {
		if err = a.checkEnv(ctx, root, sources, collector); err != nil {
			return nil, err
		}
	}
	if a.checks[CheckDeadCode] {
		if err = a.checkDeadCode(ret.Graph, collector); err != nil {
			return nil, err
		}
	}
	if a.checks[CheckSockets] {
		if err = a.checkProtocol(ctx, ret.Sides, sources, collector); err != nil {
			return nil, err
		}
	}

	fingerprint, err := ret.Graph.Hash()
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint graph: %w", err)
	}
	ret.Report = collector.Report(issue.Graph{
		Modules: ret.Graph.NodeCount(),
		Edges:   ret.Graph.EdgeCount(),
		Hash:    fmt.Sprintf("%016x", fingerprint),
	})
	ret.Report.Summary.Project = project.Name
	ret.Report.Summary.Origin = project.Origin
	a.logger.Info("analysis complete", zap.Int("issues", collector.Len()), zap.Bool("passed", ret.Report.Passed()))
	store := issue.NewStore(root, a.config.ReportPath)
	ret.ReportURL = store.URL
	if err = store.Save(ctx, ret.Report); err != nil {
		a.logger.Error("failed to save report", zap.Error(err))
	} else {
		a.printer.Printf("Report saved to %s", store.URL)
	}
	if a.graphExporter != nil {
		if err = a.graphExporter.Export(ctx, ret.Graph); err != nil {
			a.logger.Error("failed to export graph", zap.Error(err))
		}
	}
	a.printer.Summary(ret.Report)
	return ret, nil
}

func (a *Analyzer) selected() []string {
	var ret []string
	for _, check := range AllChecks() {
		if a.checks[check] {
			ret = append(ret, string(check))
		}
	}
	return ret
}

// discover lists both trees; a missing tree is logged and skipped
func (a *Analyzer) discover(ctx context.Context, root string) []*repository.Side {
	opts := []repository.FinderOption{
		repository.WithExtensions(a.config.Extensions...),
		repository.WithExcluded(a.config.Excluded...),
	}
	if a.config.RespectGitignore {
		opts = append(opts, repository.WithGitignore())
	}
	finder := repository.NewFinder(root, opts...)
	var ret []*repository.Side
	for _, candidate := range []struct{ name, dir string }{
		{sideClient, a.config.ClientDir},
		{sideServer, a.config.ServerDir},
	} {
		side, err := finder.Side(ctx, candidate.name, candidate.dir)
		if err != nil {
			if errors.Is(err, repository.ErrSideNotFound) {
				a.logger.Warn("skipping missing tree", zap.String("side", candidate.name), zap.String("dir", candidate.dir))
				a.printer.Printf("%s tree %s not found, skipping", candidate.name, candidate.dir)
				continue
			}
			a.logger.Error("failed to discover tree", zap.String("side", candidate.name), zap.Error(err))
			continue
		}
		ret = append(ret, side)
	}
	return ret
}

// load reads every file on a bounded worker pool, extracting imports into builder and env usages.
// Unreadable files are logged and skipped.
func (a *Analyzer) load(ctx context.Context, root string, files []string, builder *graph.Builder) []*source {
	needGraph := a.checks[CheckDependencies] || a.checks[CheckDeadCode]
	keepData := a.checks[CheckSockets]
	resolve := resolver.New(root,
		resolver.WithFS(a.fs),
		resolver.WithProbes(a.config.Resolver.Probes...),
		resolver.WithAliases(a.config.Resolver.Aliases),
	)
	a.printer.Printf("Found %d files to analyze", len(files))

	var treeCount, patternCount int32
	ret := make([]*source, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.config.Workers)
	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			data, err := a.fs.DownloadWithURL(groupCtx, filepath.Join(root, filepath.FromSlash(file)))
			if err != nil {
				a.logger.Debug("skipping unreadable file", zap.String("file", file), zap.Error(err))
				return nil
			}
			item := &source{path: file}
			if needGraph {
				result := a.inspector.Imports(groupCtx, file, data)
				if result.Strategy == inspector.StrategyTree {
					atomic.AddInt32(&treeCount, 1)
				} else {
					atomic.AddInt32(&patternCount, 1)
				}
				var targets []string
				for _, specifier := range result.Imports {
					if target, ok := resolve.Resolve(groupCtx, specifier, file); ok {
						targets = append(targets, target)
					}
				}
				if err = builder.AddEdges(file, targets...); err != nil {
					a.logger.Debug("skipping imports", zap.String("file", file), zap.Error(err))
				}
			}
			if a.checks[CheckEnv] {
				item.usages = envcheck.Scan(file, data)
			}
			if keepData {
				item.data = data
			}
			ret[i] = item
			return nil
		})
	}
	_ = group.Wait()
	if needGraph {
		a.logger.Debug("parsed sources", zap.Int32("tree", treeCount), zap.Int32("pattern", patternCount))
	}
	loaded := ret[:0]
	for _, item := range ret {
		if item != nil {
			loaded = append(loaded, item)
		}
	}
	return loaded
}
