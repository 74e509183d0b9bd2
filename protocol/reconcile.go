package protocol

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/viant/archcheck/config"
	"github.com/viant/archcheck/issue"
)

// Reconcile cross-checks the merged registry. Issues are returned in check order: missing handlers,
// missing listeners, unguarded handlers, then naming violations. Builtin events are exempt from all checks.
func Reconcile(registry *Registry, cfg *config.Protocol) ([]*issue.Issue, error) {
	naming, err := regexp.Compile(cfg.NamingPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid naming pattern: %w", err)
	}
	var ret []*issue.Issue
	ret = append(ret, missingHandlers(registry, cfg)...)
	ret = append(ret, missingListeners(registry, cfg)...)
	ret = append(ret, unguardedHandlers(registry, cfg)...)
	ret = append(ret, namingViolations(registry, cfg, naming)...)
	return ret, nil
}

// Requests returns client emits the server neither emits itself nor reserves as builtin
func Requests(registry *Registry, cfg *config.Protocol) []string {
	var ret []string
	for _, name := range registry.ClientEmits() {
		event := registry.Event(name)
		if len(event.ServerEmits) > 0 || cfg.IsBuiltin(name) {
			continue
		}
		ret = append(ret, name)
	}
	return ret
}

func missingHandlers(registry *Registry, cfg *config.Protocol) []*issue.Issue {
	var ret []*issue.Issue
	for _, name := range Requests(registry, cfg) {
		event := registry.Event(name)
		if len(event.ServerHandles) > 0 {
			continue
		}
		response := LikelyResponse(event, cfg)
		severity := issue.SeverityError
		message := fmt.Sprintf("Client emits '%s' but no server handler found", name)
		if response {
			severity = issue.SeverityWarning
			message += " (may be server response event)"
		}
		at := event.ClientEmits[0]
		ret = append(ret, &issue.Issue{
			Category: issue.CategoryProtocol,
			Type:     issue.TypeMissingHandler,
			File:     at.File,
			Line:     at.Line,
			Message:  message,
			Severity: severity,
			Details:  map[string]interface{}{"event": name, "likely_response": response},
		})
	}
	return ret
}

// LikelyResponse guesses whether a client-emitted event is really a server response the server
// side scan did not catch
func LikelyResponse(event *Event, cfg *config.Protocol) bool {
	if len(event.ClientListens) > 0 {
		return true
	}
	for _, suffix := range cfg.ResponseSuffixes {
		if strings.HasSuffix(event.Name, suffix) {
			return true
		}
	}
	for _, prefix := range cfg.ResponsePrefixes {
		if strings.HasPrefix(event.Name, prefix) {
			return true
		}
	}
	for _, marker := range cfg.ResponseMarkers {
		if strings.Contains(event.Name, marker) {
			return true
		}
	}
	return false
}

// missingListeners reports server emits nobody listens for, only when there are few of them
func missingListeners(registry *Registry, cfg *config.Protocol) []*issue.Issue {
	var candidates []*Event
	for _, name := range registry.ServerEmits() {
		event := registry.Event(name)
		if cfg.IsBuiltin(name) || len(event.ClientListens) > 0 {
			continue
		}
		candidates = append(candidates, event)
	}
	if len(candidates) == 0 || len(candidates) > cfg.ListenerInfoCap {
		return nil
	}
	ret := make([]*issue.Issue, 0, len(candidates))
	for _, event := range candidates {
		at := event.ServerEmits[0]
		ret = append(ret, &issue.Issue{
			Category: issue.CategoryProtocol,
			Type:     issue.TypeMissingListener,
			File:     at.File,
			Line:     at.Line,
			Message:  fmt.Sprintf("Server emits '%s' but no client listener found (may be intentional)", event.Name),
			Severity: issue.SeverityInfo,
			Details:  map[string]interface{}{"event": event.Name},
		})
	}
	return ret
}

func unguardedHandlers(registry *Registry, cfg *config.Protocol) []*issue.Issue {
	wrapper := "an error boundary"
	if len(cfg.Wrappers) > 0 {
		wrapper = cfg.Wrappers[0]
	}
	var ret []*issue.Issue
	for _, site := range registry.Handlers() {
		if site.Guarded || cfg.IsBuiltin(site.Event) {
			continue
		}
		ret = append(ret, &issue.Issue{
			Category: issue.CategoryProtocol,
			Type:     issue.TypeNoErrorBoundary,
			File:     site.File,
			Line:     site.Line,
			Message:  fmt.Sprintf("Socket handler '%s' not wrapped with %s", site.Event, wrapper),
			Severity: issue.SeverityWarning,
			Details:  map[string]interface{}{"event": site.Event, "snippet": site.Snippet},
		})
	}
	return ret
}

func namingViolations(registry *Registry, cfg *config.Protocol, naming *regexp.Regexp) []*issue.Issue {
	var ret []*issue.Issue
	for _, name := range registry.Names() {
		if cfg.IsBuiltin(name) || naming.MatchString(name) {
			continue
		}
		ret = append(ret, &issue.Issue{
			Category: issue.CategoryProtocol,
			Type:     issue.TypeNamingViolation,
			File:     "socket events",
			Message:  fmt.Sprintf("Event '%s' should use snake_case naming", name),
			Severity: issue.SeverityWarning,
			Details:  map[string]interface{}{"event": name},
		})
	}
	return ret
}
