package protocol

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/viant/archcheck/config"
	"github.com/viant/archcheck/inspector"
)

// Scanner extracts socket events from client and server sources
type Scanner struct {
	config    *config.Protocol
	clientDir string
	serverDir string
	inspector *inspector.Inspector
	logger    *zap.Logger

	clientEmit   *regexp.Regexp
	clientListen *regexp.Regexp
	serverEmit   *regexp.Regexp
	serverListen *regexp.Regexp
}

// Option configures a Scanner
type Option func(*Scanner)

// WithInspector sets the syntax tree inspector used for the event table
func WithInspector(i *inspector.Inspector) Option {
	return func(s *Scanner) {
		s.inspector = i
	}
}

// WithLogger sets the scanner logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScanner creates a scanner for the client and server trees described by cfg
func NewScanner(cfg *config.Config, opts ...Option) (*Scanner, error) {
	ret := &Scanner{
		config:    &cfg.Protocol,
		clientDir: strings.Trim(cfg.ClientDir, "/"),
		serverDir: strings.Trim(cfg.ServerDir, "/"),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.inspector == nil {
		ret.inspector = inspector.New(inspector.WithLogger(ret.logger))
	}
	var err error
	if ret.clientEmit, err = callPattern(cfg.Protocol.Receivers, cfg.Protocol.EmitCall, false); err != nil {
		return nil, err
	}
	if ret.clientListen, err = callPattern(cfg.Protocol.Receivers, cfg.Protocol.ListenCall, false); err != nil {
		return nil, err
	}
	if ret.serverEmit, err = callPattern(cfg.Protocol.ServerReceivers, cfg.Protocol.EmitCall, true); err != nil {
		return nil, err
	}
	if ret.serverListen, err = callPattern(cfg.Protocol.Receivers, cfg.Protocol.ListenCall, false); err != nil {
		return nil, err
	}
	return ret, nil
}

// callPattern matches `receiver.call('event'` and captures the event name. Server side emits may be
// routed through `.to(room)`, `.in(room)` or `.broadcast` first.
func callPattern(receivers []string, call string, routed bool) (*regexp.Regexp, error) {
	if len(receivers) == 0 || call == "" {
		return nil, fmt.Errorf("protocol receivers and call names are required")
	}
	quoted := make([]string, len(receivers))
	for i, receiver := range receivers {
		quoted[i] = regexp.QuoteMeta(receiver)
	}
	route := ""
	if routed {
		route = `(?:\s*\.\s*(?:to|in)\([^)]*\)|\s*\.\s*broadcast)*`
	}
	expr := `\b(?:` + strings.Join(quoted, "|") + `)` + route + `\s*\.\s*` + regexp.QuoteMeta(call) + `\(\s*['"]([^'"]+)['"]`
	ret, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid call pattern for %s: %w", call, err)
	}
	return ret, nil
}

// within reports whether p lies under the root-relative dir
func within(p, dir string) bool {
	if dir == "" {
		return true
	}
	return p == dir || strings.HasPrefix(p, dir+"/")
}

// lines splits src into lines without trailing newlines
func lines(src []byte) []string {
	var ret []string
	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		ret = append(ret, scanner.Text())
	}
	return ret
}

// sites adds every match of pattern in text to target
func sites(pattern *regexp.Regexp, file string, text []string, target Sites) {
	for i, line := range text {
		for _, match := range pattern.FindAllStringSubmatch(line, -1) {
			target.add(match[1], file, i+1)
		}
	}
}
