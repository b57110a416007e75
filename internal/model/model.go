// Package model defines the core data types shared across reviewgate.
package model

import "fmt"

// HookName identifies a git hook that reviewgate can gate.
type HookName string

const (
	HookPreCommit HookName = "pre-commit"
	HookPrePush   HookName = "pre-push"
)

// AllHooks lists every supported hook in install order.
func AllHooks() []HookName {
	return []HookName{HookPreCommit, HookPrePush}
}

// ParseHook validates a hook name.
func ParseHook(s string) (HookName, error) {
	for _, h := range AllHooks() {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("unsupported hook %q (want pre-commit or pre-push)", s)
}

// Action is the verb shown to the operator for the hook's git operation.
func (h HookName) Action() string {
	switch h {
	case HookPreCommit:
		return "commit"
	case HookPrePush:
		return "push"
	default:
		return "operation"
	}
}

// HookSet is the set of hooks enabled in a config.
type HookSet map[HookName]bool

// NewHookSet builds a set from the given hooks.
func NewHookSet(hooks ...HookName) HookSet {
	s := make(HookSet, len(hooks))
	for _, h := range hooks {
		s[h] = true
	}
	return s
}

// Has reports whether h is enabled.
func (s HookSet) Has(h HookName) bool {
	return s[h]
}

// List returns the enabled hooks in AllHooks order.
func (s HookSet) List() []HookName {
	var out []HookName
	for _, h := range AllHooks() {
		if s[h] {
			out = append(out, h)
		}
	}
	return out
}

// Strings returns List as plain strings, for serialization.
func (s HookSet) Strings() []string {
	list := s.List()
	out := make([]string, len(list))
	for i, h := range list {
		out[i] = string(h)
	}
	return out
}
