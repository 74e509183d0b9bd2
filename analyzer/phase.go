package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/viant/archcheck/boundary"
	"github.com/viant/archcheck/deadcode"
	"github.com/viant/archcheck/envcheck"
	"github.com/viant/archcheck/graph"
	"github.com/viant/archcheck/inspector/repository"
	"github.com/viant/archcheck/issue"
	"github.com/viant/archcheck/protocol"
)

func (a *Analyzer) checkDependencies(g *graph.Graph, collector *issue.Collector) error {
	a.printer.Phase("Circular Dependencies")
	cycles := graph.FindCycles(g)
	circular := make([]*issue.Issue, 0, len(cycles))
	for _, cycle := range cycles {
		circular = append(circular, &issue.Issue{
			Category: issue.CategoryDependency,
			Type:     issue.TypeCircular,
			File:     cycle[0],
			Message:  "Circular dependency detected: " + cycle.String(),
			Severity: issue.SeverityError,
			Details:  map[string]interface{}{"cycle": []string(cycle)},
		})
	}
	collector.Add(circular...)
	if len(circular) == 0 {
		a.printer.Printf("No circular dependencies found")
	}
	a.printer.List("Circular dependency chains", circular, 0)

	a.printer.Phase("Forbidden Dependencies")
	rules, err := boundary.Compile(a.config.Rules)
	if err != nil {
		return err
	}
	violations := boundary.Check(g, rules)
	forbidden := make([]*issue.Issue, 0, len(violations))
	for _, violation := range violations {
		forbidden = append(forbidden, &issue.Issue{
			Category: issue.CategoryDependency,
			Type:     issue.TypeForbidden,
			File:     violation.Source,
			Message:  fmt.Sprintf("Forbidden dependency: %s (%s)", violation.Target, violation.Rule),
			Severity: issue.Severity(violation.Severity),
			Details:  map[string]interface{}{"target": violation.Target, "rule": violation.Rule},
		})
	}
	collector.Add(forbidden...)
	if len(forbidden) == 0 {
		a.printer.Printf("No forbidden dependencies found")
	}
	a.printer.List("Forbidden dependency violations", forbidden, 0)
	return nil
}

func (a *Analyzer) checkEnv(ctx context.Context, root string, sources []*source, collector *issue.Collector) error {
	a.printer.Phase("Environment Variables")
	var usages []envcheck.Usage
	for _, item := range sources {
		usages = append(usages, item.usages...)
	}
	documented, err := envcheck.Documented(ctx, a.fs, root, a.config.Env.ExampleFiles)
	if err != nil {
		return err
	}
	a.printer.Printf("Found %d documented environment variables", len(documented))
	issues := envcheck.Check(usages, documented)
	collector.Add(issues...)

	var undocumented, unused []*issue.Issue
	for _, item := range issues {
		if item.Type == issue.TypeUsedUndocumented {
			undocumented = append(undocumented, item)
			continue
		}
		unused = append(unused, item)
	}
	if len(issues) == 0 {
		a.printer.Printf("All environment variables are consistent")
	}
	a.printer.List("Variables used but not in .env.example", undocumented, 0)
	a.printer.List("Variables in .env.example but not used in code", unused, 0)
	return nil
}

func (a *Analyzer) checkDeadCode(g *graph.Graph, collector *issue.Collector) error {
	a.printer.Phase("Dead Code")
	detector, err := deadcode.New(&a.config.DeadCode)
	if err != nil {
		return err
	}
	issues := detector.Detect(g)
	collector.Add(issues...)
	if len(issues) == 0 {
		a.printer.Printf("No dead code detected")
	}
	a.printer.List("Potentially unused files", issues, a.config.DeadCode.DisplayCap)
	return nil
}

// checkProtocol runs the client and server scans concurrently, then reconciles them
func (a *Analyzer) checkProtocol(ctx context.Context, sides []*repository.Side, sources []*source, collector *issue.Collector) error {
	a.printer.Phase("Socket Protocol")
	scanner, err := protocol.NewScanner(a.config, protocol.WithInspector(a.inspector), protocol.WithLogger(a.logger))
	if err != nil {
		return err
	}
	files := make([]protocol.File, 0, len(sources))
	for _, item := range sources {
		files = append(files, protocol.File{Path: item.path, Data: item.data})
	}
	present := map[string]bool{}
	for _, side := range sides {
		present[side.Name] = true
	}

	var client *protocol.ClientScan
	var server *protocol.ServerScan
	group, groupCtx := errgroup.WithContext(ctx)
	if present[sideClient] {
		group.Go(func() error {
			client = scanner.ScanClient(groupCtx, files)
			return nil
		})
	}
	if present[sideServer] {
		group.Go(func() error {
			server = scanner.ScanServer(groupCtx, files)
			return nil
		})
	}
	_ = group.Wait()

	registry := protocol.NewRegistry(client, server)
	a.printer.Printf("Found %d client emit events, %d client listen events", len(registry.ClientEmits()), len(registry.ClientListens()))
	a.printer.Printf("Found %d server handlers, %d server emit events", len(registry.ServerHandles()), len(registry.ServerEmits()))
	a.logger.Debug("protocol registry", zap.Int("events", len(registry.Names())), zap.Int("handlers", len(registry.Handlers())))

	issues, err := protocol.Reconcile(registry, &a.config.Protocol)
	if err != nil {
		return err
	}
	collector.Add(issues...)
	if len(issues) == 0 {
		a.printer.Printf("Socket protocol is consistent")
	}
	groups := map[string][]*issue.Issue{}
	for _, item := range issues {
		groups[item.Type] = append(groups[item.Type], item)
	}
	a.printer.List("Client request events without server handlers", groups[issue.TypeMissingHandler], 0)
	a.printer.List("Server events without client listeners (may be intentional)", groups[issue.TypeMissingListener], 0)
	a.printer.List("Handlers without error boundary", groups[issue.TypeNoErrorBoundary], 0)
	a.printer.List("Events violating snake_case naming", groups[issue.TypeNamingViolation], 0)
	return nil
}
