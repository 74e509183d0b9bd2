package analyzer

import (
	"fmt"
	"strings"
)

// Check selects an analysis phase
type Check string

const (
	CheckDependencies Check = "dependencies"
	CheckEnv          Check = "env"
	CheckDeadCode     Check = "dead-code"
	CheckSockets      Check = "sockets"
)

// AllChecks returns every phase in run order
func AllChecks() []Check {
	return []Check{CheckDependencies, CheckEnv, CheckDeadCode, CheckSockets}
}

// ParseChecks parses a comma or space separated selection; empty selects everything.
// "protocol" is accepted for sockets.
func ParseChecks(value string) ([]Check, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return AllChecks(), nil
	}
	seen := map[Check]bool{}
	var ret []Check
	for _, field := range fields {
		check := Check(strings.ToLower(strings.TrimSpace(field)))
		switch check {
		case CheckDependencies, CheckEnv, CheckDeadCode, CheckSockets:
		case "protocol":
			check = CheckSockets
		default:
			return nil, fmt.Errorf("unsupported check %q, expected one of dependencies, env, dead-code, sockets", field)
		}
		if !seen[check] {
			seen[check] = true
			ret = append(ret, check)
		}
	}
	return ret, nil
}
