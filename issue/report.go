package issue

// Report is the persisted outcome of one run
type Report struct {
	Dependency []*Issue `json:"dependency_issues"`
	Env        []*Issue `json:"env_var_issues"`
	DeadCode   []*Issue `json:"dead_code_issues"`
	Protocol   []*Issue `json:"socket_issues"`
	Summary    Summary  `json:"summary"`
}

// Summary holds issue counts and graph statistics
type Summary struct {
	Project               string           `json:"project,omitempty"`
	Origin                string           `json:"origin,omitempty"`
	TotalDependencyIssues int              `json:"total_dependency_issues"`
	TotalEnvVarIssues     int              `json:"total_env_var_issues"`
	TotalDeadCodeIssues   int              `json:"total_dead_code_issues"`
	TotalSocketIssues     int              `json:"total_socket_issues"`
	CircularDependencies  int              `json:"circular_dependencies"`
	ForbiddenDependencies int              `json:"forbidden_dependencies"`
	BySeverity            map[Severity]int `json:"by_severity"`
	Modules               int              `json:"modules"`
	Edges                 int              `json:"edges"`
	GraphHash             string           `json:"graph_hash,omitempty"`
}

// Graph describes the dependency graph the report was computed from
type Graph struct {
	Modules int
	Edges   int
	Hash    string
}

// Report builds a report from the collected issues
func (c *Collector) Report(graph Graph) *Report {
	ret := &Report{
		Dependency: []*Issue{},
		Env:        []*Issue{},
		DeadCode:   []*Issue{},
		Protocol:   []*Issue{},
		Summary: Summary{
			BySeverity: map[Severity]int{SeverityError: 0, SeverityWarning: 0, SeverityInfo: 0},
			Modules:    graph.Modules,
			Edges:      graph.Edges,
			GraphHash:  graph.Hash,
		},
	}
	for _, item := range c.Issues() {
		switch item.Category {
		case CategoryDependency:
			ret.Dependency = append(ret.Dependency, item)
			switch item.Type {
			case TypeCircular:
				ret.Summary.CircularDependencies++
			case TypeForbidden:
				ret.Summary.ForbiddenDependencies++
			}
		case CategoryEnv:
			ret.Env = append(ret.Env, item)
		case CategoryDeadCode:
			ret.DeadCode = append(ret.DeadCode, item)
		case CategoryProtocol:
			ret.Protocol = append(ret.Protocol, item)
		default:
			continue
		}
		ret.Summary.BySeverity[item.Severity]++
	}
	ret.Summary.TotalDependencyIssues = len(ret.Dependency)
	ret.Summary.TotalEnvVarIssues = len(ret.Env)
	ret.Summary.TotalDeadCodeIssues = len(ret.DeadCode)
	ret.Summary.TotalSocketIssues = len(ret.Protocol)
	return ret
}

// Passed reports whether no dependency or protocol issue has error severity
func (r *Report) Passed() bool {
	for _, list := range [][]*Issue{r.Dependency, r.Protocol} {
		for _, item := range list {
			if item.Severity == SeverityError {
				return false
			}
		}
	}
	return true
}
