// Package config resolves the review gate configuration.
//
// Resolution never fails: a missing file, an unreadable file, or a malformed
// field each fall back to the built-in default for that field only.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aezell/reviewgate/internal/model"
)

// File layout inside a repository.
const (
	DirName  = ".reviewgate"
	FileName = "config.json"

	// EnvPath overrides the config file location.
	EnvPath = "REVIEWGATE_CONFIG"
)

// DiffPlaceholder marks where the diff text goes in a prompt template.
const DiffPlaceholder = "{DIFF}"

// Config keys as they appear in the file.
const (
	KeyEnabledHooks    = "enabledHooks"
	KeyFileTypes       = "fileTypes"
	KeyExcludePaths    = "excludePaths"
	KeyReviewPrompt    = "reviewPrompt"
	KeyPromptFile      = "promptFile"
	KeyReviewerCommand = "reviewerCommand"
	KeyReviewerArgs    = "reviewerArgs"
	KeyPromptTimeout   = "promptTimeout"
	KeyTUI             = "tui"
	KeyShowDiff        = "showDiff"
)

// DefaultPrompt is the review prompt used when none is configured.
const DefaultPrompt = `Please review the following code changes. Focus on:
- Bugs and logic errors
- Security vulnerabilities
- Performance problems
- Readability and maintainability

Be concise. List concrete issues with file and line references where possible.
If the changes look good, say so briefly.

` + DiffPlaceholder

// DefaultPromptTimeout bounds the operator decision prompt.
const DefaultPromptTimeout = 30 * time.Second

// ReviewConfig is the resolved configuration for one hook invocation.
type ReviewConfig struct {
	EnabledHooks    model.HookSet
	FileTypes       []string
	ExcludePaths    []string
	PromptTemplate  string
	ReviewerCommand string
	ReviewerArgs    []string
	PromptTimeout   time.Duration
	TUI             bool
	ShowDiff        bool
}

// Defaults returns the built-in configuration.
func Defaults() ReviewConfig {
	return ReviewConfig{
		EnabledHooks: model.NewHookSet(model.HookPreCommit, model.HookPrePush),
		FileTypes: []string{
			".js", ".jsx", ".ts", ".tsx",
			".py", ".go", ".java", ".kt",
			".rb", ".php", ".rs", ".swift",
			".c", ".cpp", ".h", ".cs",
		},
		ExcludePaths: []string{
			"node_modules/", "dist/", "build/",
			"vendor/", "coverage/", ".next/",
		},
		PromptTemplate:  DefaultPrompt,
		ReviewerCommand: "",
		ReviewerArgs:    []string{"-p"},
		PromptTimeout:   DefaultPromptTimeout,
	}
}

// Path picks the config file location: explicit flag, then $REVIEWGATE_CONFIG,
// then <repoRoot>/.reviewgate/config.json.
func Path(flag, repoRoot string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return filepath.Join(repoRoot, DirName, FileName)
}

// FieldError describes a config field that was ignored in favor of its default.
type FieldError struct {
	Key    string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config field %q ignored: %s", e.Key, e.Reason)
}

// Resolve loads the config at path, falling back to defaults on any problem.
func Resolve(path string) ReviewConfig {
	cfg, _ := Load(path)
	return cfg
}

// Load is Resolve plus the list of problems that caused fallbacks.
// A missing file is not a problem.
func Load(path string) (ReviewConfig, []error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, []error{fmt.Errorf("reading config: %w", err)}
	}

	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		return cfg, []error{fmt.Errorf("parsing config %s: %w", path, err)}
	}

	var problems []error
	bad := func(key, reason string) {
		problems = append(problems, &FieldError{Key: key, Reason: reason})
	}

	if list, ok, err := stringList(v, KeyEnabledHooks); err != nil {
		bad(KeyEnabledHooks, err.Error())
	} else if ok {
		hooks := model.NewHookSet()
		for _, name := range list {
			h, err := model.ParseHook(name)
			if err != nil {
				bad(KeyEnabledHooks, err.Error())
				continue
			}
			hooks[h] = true
		}
		cfg.EnabledHooks = hooks
	}

	if list, ok, err := stringList(v, KeyFileTypes); err != nil {
		bad(KeyFileTypes, err.Error())
	} else if ok {
		cfg.FileTypes = list
	}

	if list, ok, err := stringList(v, KeyExcludePaths); err != nil {
		bad(KeyExcludePaths, err.Error())
	} else if ok {
		cfg.ExcludePaths = list
	}

	if s, ok, err := nonEmptyString(v, KeyReviewPrompt); err != nil {
		bad(KeyReviewPrompt, err.Error())
	} else if ok {
		cfg.PromptTemplate = s
	} else if file, ok, err := nonEmptyString(v, KeyPromptFile); err != nil {
		bad(KeyPromptFile, err.Error())
	} else if ok {
		if !filepath.IsAbs(file) {
			file = filepath.Join(filepath.Dir(path), file)
		}
		data, err := os.ReadFile(file) // #nosec G304 -- path comes from the repo's own config
		switch {
		case err != nil:
			bad(KeyPromptFile, err.Error())
		case strings.TrimSpace(string(data)) == "":
			bad(KeyPromptFile, "template file is empty")
		default:
			cfg.PromptTemplate = string(data)
		}
	}

	if s, ok, err := nonEmptyString(v, KeyReviewerCommand); err != nil {
		bad(KeyReviewerCommand, err.Error())
	} else if ok {
		cfg.ReviewerCommand = s
	}

	if list, ok, err := stringList(v, KeyReviewerArgs); err != nil {
		bad(KeyReviewerArgs, err.Error())
	} else if ok {
		cfg.ReviewerArgs = list
	}

	if d, ok, err := seconds(v, KeyPromptTimeout); err != nil {
		bad(KeyPromptTimeout, err.Error())
	} else if ok {
		cfg.PromptTimeout = d
	}

	if b, ok, err := boolean(v, KeyTUI); err != nil {
		bad(KeyTUI, err.Error())
	} else if ok {
		cfg.TUI = b
	}

	if b, ok, err := boolean(v, KeyShowDiff); err != nil {
		bad(KeyShowDiff, err.Error())
	} else if ok {
		cfg.ShowDiff = b
	}

	return cfg, problems
}

// stringList reads a list of strings. Empty entries are dropped; an explicit
// empty list is valid and returned as a non-nil empty slice.
func stringList(v *viper.Viper, key string) ([]string, bool, error) {
	raw := v.Get(key)
	if raw == nil {
		return nil, false, nil
	}

	var items []string
	switch t := raw.(type) {
	case []string:
		items = t
	case []any:
		items = make([]string, 0, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false, fmt.Errorf("element %d is %T, want string", i, e)
			}
			items = append(items, s)
		}
	default:
		return nil, false, fmt.Errorf("got %T, want list of strings", raw)
	}

	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return slices.Clip(out), true, nil
}

func nonEmptyString(v *viper.Viper, key string) (string, bool, error) {
	raw := v.Get(key)
	if raw == nil {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("got %T, want string", raw)
	}
	if strings.TrimSpace(s) == "" {
		return "", false, errors.New("empty string")
	}
	return s, true, nil
}

func seconds(v *viper.Viper, key string) (time.Duration, bool, error) {
	raw := v.Get(key)
	if raw == nil {
		return 0, false, nil
	}
	var n float64
	switch t := raw.(type) {
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case float64:
		n = t
	default:
		return 0, false, fmt.Errorf("got %T, want number of seconds", raw)
	}
	if n <= 0 {
		return 0, false, fmt.Errorf("must be positive, got %v", n)
	}
	return time.Duration(n * float64(time.Second)), true, nil
}

func boolean(v *viper.Viper, key string) (bool, bool, error) {
	raw := v.Get(key)
	if raw == nil {
		return false, false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, false, fmt.Errorf("got %T, want true or false", raw)
	}
	return b, true, nil
}
