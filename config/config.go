package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrRootNotFound is returned when the project root does not exist
var ErrRootNotFound = errors.New("project root not found")

// Config holds the compiled-in analysis configuration; a YAML file may override any field
type Config struct {
	Root             string         `yaml:"root"`
	ClientDir        string         `yaml:"clientDir"`
	ServerDir        string         `yaml:"serverDir"`
	Extensions       []string       `yaml:"extensions"`
	Excluded         []string       `yaml:"excluded"`
	RespectGitignore bool           `yaml:"respectGitignore"`
	Workers          int            `yaml:"workers"`
	ReportPath       string         `yaml:"reportPath"`
	DisplayCap       int            `yaml:"displayCap"`
	DisableTree      bool           `yaml:"disableTree"`
	Resolver         ResolverConfig `yaml:"resolver"`
	Rules            []Rule         `yaml:"rules"`
	Protocol         Protocol       `yaml:"protocol"`
	Env              Env            `yaml:"env"`
	DeadCode         DeadCode       `yaml:"deadCode"`
}

// ResolverConfig controls import specifier resolution
type ResolverConfig struct {
	Probes  []string          `yaml:"probes"`
	Aliases map[string]string `yaml:"aliases"`
}

// Rule is a layering constraint: modules matching Source must not import anything matching Forbidden
type Rule struct {
	Name      string `yaml:"name"`
	Source    string `yaml:"source"`
	Forbidden string `yaml:"forbidden"`
	Severity  string `yaml:"severity"`
}

// Protocol configures socket event extraction and reconciliation
type Protocol struct {
	TablePath        string   `yaml:"tablePath"` // relative to ClientDir
	TableName        string   `yaml:"tableName"`
	HandlerMarker    string   `yaml:"handlerMarker"`
	Receivers        []string `yaml:"receivers"`
	ServerReceivers  []string `yaml:"serverReceivers"`
	EmitCall         string   `yaml:"emitCall"`
	ListenCall       string   `yaml:"listenCall"`
	Wrappers         []string `yaml:"wrappers"`
	BoundaryMarker   string   `yaml:"boundaryMarker"`
	Window           int      `yaml:"window"`
	Builtins         []string `yaml:"builtins"`
	ResponseSuffixes []string `yaml:"responseSuffixes"`
	ResponsePrefixes []string `yaml:"responsePrefixes"`
	ResponseMarkers  []string `yaml:"responseMarkers"`
	ListenerInfoCap  int      `yaml:"listenerInfoCap"`
	NamingPattern    string   `yaml:"namingPattern"`
}

// Env configures the environment variable consistency check
type Env struct {
	ExampleFiles []string `yaml:"exampleFiles"` // relative to Root
}

// DeadCode configures unused file detection
type DeadCode struct {
	EntryPoints  []string `yaml:"entryPoints"`
	TestPatterns []string `yaml:"testPatterns"`
	DisplayCap   int      `yaml:"displayCap"`
}

// Default returns the compiled-in defaults
func Default() *Config {
	return &Config{
		Root:       ".",
		ClientDir:  "chat-client-vite",
		ServerDir:  "chat-server",
		Extensions: []string{".js", ".jsx", ".ts", ".tsx"},
		Excluded:   []string{"node_modules", "dist", "build", ".next", "coverage", ".git", ".venv"},
		Workers:    runtime.NumCPU(),
		ReportPath: "reports/architecture_analysis.json",
		DisplayCap: 10,
		Resolver: ResolverConfig{
			Probes: []string{".js", ".jsx", ".ts", ".tsx", "/index.js", "/index.ts"},
		},
		Rules: []Rule{
			{
				Name:      "Domain Core → Routes",
				Source:    `chat-server/src/(liaizen|core|domain)/.*`,
				Forbidden: `(routes|socketHandlers|server\.js)`,
				Severity:  "error",
			},
			{
				Name:      "Domain Core → Express",
				Source:    `chat-server/src/(liaizen|core|domain)/.*`,
				Forbidden: `express`,
				Severity:  "error",
			},
			{
				Name:      "Client → Server",
				Source:    `chat-client-vite/.*`,
				Forbidden: `chat-server/`,
				Severity:  "error",
			},
			{
				Name:      "Server → Client",
				Source:    `chat-server/.*`,
				Forbidden: `chat-client-vite/`,
				Severity:  "error",
			},
		},
		Protocol: Protocol{
			TablePath:        "src/adapters/socket/SocketAdapter.js",
			TableName:        "SocketEvents",
			HandlerMarker:    "socketHandlers",
			Receivers:        []string{"socket"},
			ServerReceivers:  []string{"socket", "io"},
			EmitCall:         "emit",
			ListenCall:       "on",
			Wrappers:         []string{"wrapSocketHandler"},
			BoundaryMarker:   "errorboundary",
			Window:           5,
			Builtins:         []string{"connect", "disconnect", "connect_error", "reconnect", "reconnect_attempt", "error"},
			ResponseSuffixes: []string{"_success", "_result", "_list", "_history"},
			ResponsePrefixes: []string{"new_", "thread_"},
			ResponseMarkers:  []string{"intervention", "flagged", "delivered"},
			ListenerInfoCap:  5,
			NamingPattern:    `^[a-z][a-z0-9_]*$`,
		},
		Env: Env{
			ExampleFiles: []string{"chat-server/.env.example", "chat-client-vite/.env.example", ".env.example"},
		},
		DeadCode: DeadCode{
			EntryPoints:  []string{"server.js", "main.jsx", "index.js", "index.jsx", "App.jsx", "App.js"},
			TestPatterns: []string{`\.test\.`, `\.spec\.`, `__tests__`, `__mocks__`},
			DisplayCap:   20,
		},
	}
}

// Load reads a YAML overlay; fields missing from the document keep their defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks patterns and numeric settings
func (c *Config) Validate() error {
	for _, rule := range c.Rules {
		if _, err := regexp.Compile(rule.Source); err != nil {
			return fmt.Errorf("rule %q: invalid source pattern: %w", rule.Name, err)
		}
		if _, err := regexp.Compile(rule.Forbidden); err != nil {
			return fmt.Errorf("rule %q: invalid forbidden pattern: %w", rule.Name, err)
		}
		switch rule.Severity {
		case "error", "warning", "info":
		default:
			return fmt.Errorf("rule %q: unsupported severity %q", rule.Name, rule.Severity)
		}
	}
	if _, err := regexp.Compile(c.Protocol.NamingPattern); err != nil {
		return fmt.Errorf("invalid naming pattern: %w", err)
	}
	for _, pattern := range c.DeadCode.TestPatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid test pattern %q: %w", pattern, err)
		}
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.DisplayCap < 1 {
		c.DisplayCap = 10
	}
	return nil
}

// IsBuiltin reports whether name is an event reserved by the transport
func (p *Protocol) IsBuiltin(name string) bool {
	for _, builtin := range p.Builtins {
		if builtin == name {
			return true
		}
	}
	return false
}
