// Package config loads containment scenario files.
//
// A scenario describes a screen, a set of stack controllers and the steps
// driven against them:
//
//	name: push-pop
//	defaults:
//	  transition: slide-from-right
//	  animated: true
//	screen:
//	  width: 390
//	  height: 844
//	stacks:
//	  - name: main
//	    root: home
//	steps:
//	  - action: show
//	  - action: push
//	    stack: main
//	    unit: details
//	  - action: pop
//	    stack: main
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/containment/pkg/containment"
	drifterrors "github.com/go-drift/containment/pkg/errors"
)

// Scenario is the raw content of a scenario file.
type Scenario struct {
	Name     string         `yaml:"name,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Screen   ScreenConfig   `yaml:"screen"`
	Stacks   []StackConfig  `yaml:"stacks"`
	Steps    []StepConfig   `yaml:"steps"`
}

// DefaultsConfig applies to steps that do not override it.
type DefaultsConfig struct {
	Transition string `yaml:"transition,omitempty"`
	Duration   string `yaml:"duration,omitempty"`
	Animated   bool   `yaml:"animated,omitempty"`
}

// ScreenConfig sizes the window hosting the first stack.
type ScreenConfig struct {
	Width       float64 `yaml:"width,omitempty"`
	Height      float64 `yaml:"height,omitempty"`
	Orientation string  `yaml:"orientation,omitempty"`
}

// StackConfig declares a stack controller and its root unit.
type StackConfig struct {
	Name string `yaml:"name"`
	Root string `yaml:"root"`
	// Refuse lists orientations the root unit refuses to rotate to.
	Refuse []string `yaml:"refuse,omitempty"`
}

// StepConfig is one scenario step.
type StepConfig struct {
	Action      string   `yaml:"action"`
	Stack       string   `yaml:"stack,omitempty"`
	Unit        string   `yaml:"unit,omitempty"`
	Transition  string   `yaml:"transition,omitempty"`
	Duration    string   `yaml:"duration,omitempty"`
	Orientation string   `yaml:"orientation,omitempty"`
	Refuse      []string `yaml:"refuse,omitempty"`
	Wait        string   `yaml:"wait,omitempty"`
}

// Action is a resolved step verb.
type Action string

const (
	ActionShow      Action = "show"
	ActionHide      Action = "hide"
	ActionPush      Action = "push"
	ActionPop       Action = "pop"
	ActionPopToRoot Action = "pop-to-root"
	ActionRotate    Action = "rotate"
	ActionUnload    Action = "unload"
	ActionWait      Action = "wait"
	ActionSettle    Action = "settle"
)

var actions = map[Action]bool{
	ActionShow: true, ActionHide: true, ActionPush: true, ActionPop: true,
	ActionPopToRoot: true, ActionRotate: true, ActionUnload: true,
	ActionWait: true, ActionSettle: true,
}

// Resolved is a validated scenario with defaults applied.
type Resolved struct {
	Name        string
	Path        string
	Animated    bool
	Width       float64
	Height      float64
	Orientation containment.Orientation
	Stacks      []Stack
	Steps       []Step
}

// Stack is a resolved stack declaration.
type Stack struct {
	Name   string
	Root   string
	Refuse []containment.Orientation
}

// Step is a resolved step.
type Step struct {
	Action      Action
	Stack       string
	Unit        string
	Transition  containment.TransitionKind
	Duration    time.Duration
	Orientation containment.Orientation
	Refuse      []containment.Orientation
	Wait        time.Duration
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configError(fmt.Errorf("failed to read %s: %w", filepath.Base(path), err))
	}
	return Parse(data)
}

// Parse decodes scenario YAML. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, configError(fmt.Errorf("failed to parse scenario: %w", err))
	}
	return &s, nil
}

// LoadOptional reads containment.yaml from dir if present and returns an
// empty scenario otherwise.
func LoadOptional(dir string) (*Scenario, error) {
	s, err := Load(filepath.Join(dir, "containment.yaml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Scenario{}, nil
		}
		return nil, err
	}
	return s, nil
}

// Resolve loads the scenario at path and applies defaults.
func Resolve(path string) (*Resolved, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	return s.Resolve(path)
}

// Resolve validates s and applies defaults. path is used to name unnamed
// scenarios and may be empty.
func (s *Scenario) Resolve(path string) (*Resolved, error) {
	r := &Resolved{
		Name:     strings.TrimSpace(s.Name),
		Path:     path,
		Animated: s.Defaults.Animated,
		Width:    s.Screen.Width,
		Height:   s.Screen.Height,
	}
	if r.Name == "" {
		r.Name = defaultName(path)
	}
	if r.Width <= 0 {
		r.Width = 320
	}
	if r.Height <= 0 {
		r.Height = 480
	}

	var err error
	if r.Orientation, err = orientation(s.Screen.Orientation, containment.OrientationPortrait); err != nil {
		return nil, configError(fmt.Errorf("screen: %w", err))
	}
	defaultKind, err := transitionKind(s.Defaults.Transition, containment.TransitionNone)
	if err != nil {
		return nil, configError(fmt.Errorf("defaults: %w", err))
	}
	defaultDuration, err := duration(s.Defaults.Duration, containment.DefaultDuration)
	if err != nil {
		return nil, configError(fmt.Errorf("defaults: %w", err))
	}

	if len(s.Stacks) == 0 {
		return nil, configError(errors.New("scenario declares no stacks"))
	}
	names := make(map[string]bool)
	for i, sc := range s.Stacks {
		name := strings.TrimSpace(sc.Name)
		if name == "" {
			return nil, configError(fmt.Errorf("stack %d has no name", i))
		}
		if sc.Root == "" {
			return nil, configError(fmt.Errorf("stack %q has no root unit", name))
		}
		if names[name] || names[sc.Root] {
			return nil, configError(fmt.Errorf("stack %q: duplicate name", name))
		}
		names[name] = true
		names[sc.Root] = true
		refuse, err := orientations(sc.Refuse)
		if err != nil {
			return nil, configError(fmt.Errorf("stack %q: %w", name, err))
		}
		r.Stacks = append(r.Stacks, Stack{Name: name, Root: sc.Root, Refuse: refuse})
	}

	for i, sc := range s.Steps {
		step, err := resolveStep(sc, defaultKind, defaultDuration)
		if err != nil {
			return nil, configError(fmt.Errorf("step %d: %w", i+1, err))
		}
		if step.Stack != "" && !r.hasStack(step.Stack) {
			return nil, configError(fmt.Errorf("step %d: unknown stack %q", i+1, step.Stack))
		}
		r.Steps = append(r.Steps, step)
	}
	return r, nil
}

func (r *Resolved) hasStack(name string) bool {
	for _, s := range r.Stacks {
		if s.Name == name {
			return true
		}
	}
	return false
}

// IsStack reports whether name refers to a declared stack.
func (r *Resolved) IsStack(name string) bool {
	return r.hasStack(name)
}

func resolveStep(sc StepConfig, defaultKind containment.TransitionKind, defaultDuration time.Duration) (Step, error) {
	action := Action(strings.ToLower(strings.TrimSpace(sc.Action)))
	if !actions[action] {
		return Step{}, fmt.Errorf("unknown action %q", sc.Action)
	}
	step := Step{Action: action, Stack: sc.Stack, Unit: sc.Unit}

	var err error
	if step.Transition, err = transitionKind(sc.Transition, defaultKind); err != nil {
		return Step{}, err
	}
	if step.Duration, err = duration(sc.Duration, defaultDuration); err != nil {
		return Step{}, err
	}
	if step.Orientation, err = orientation(sc.Orientation, containment.OrientationPortrait); err != nil {
		return Step{}, err
	}
	if step.Refuse, err = orientations(sc.Refuse); err != nil {
		return Step{}, err
	}
	if step.Wait, err = duration(sc.Wait, 0); err != nil {
		return Step{}, err
	}

	switch action {
	case ActionPush:
		if step.Stack == "" || step.Unit == "" {
			return Step{}, errors.New("push needs a stack and a unit")
		}
	case ActionPop, ActionPopToRoot:
		if step.Stack == "" {
			return Step{}, fmt.Errorf("%s needs a stack", action)
		}
	case ActionRotate:
		if sc.Orientation == "" {
			return Step{}, errors.New("rotate needs an orientation")
		}
	case ActionWait:
		if step.Wait <= 0 {
			return Step{}, errors.New("wait needs a positive duration")
		}
	}
	return step, nil
}

func transitionKind(value string, fallback containment.TransitionKind) (containment.TransitionKind, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return containment.ParseTransitionKind(value)
}

func duration(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "default" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s", drifterrors.ErrInvalidDuration, value)
	}
	return d, nil
}

func orientation(value string, fallback containment.Orientation) (containment.Orientation, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return containment.ParseOrientation(value)
}

func orientations(values []string) ([]containment.Orientation, error) {
	var out []containment.Orientation
	for _, v := range values {
		o, err := containment.ParseOrientation(v)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// defaultName names a scenario after its file, prefixed with the enclosing
// module's last path element when the file sits inside a Go module.
func defaultName(path string) string {
	if path == "" {
		return "scenario"
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if mod := modulePath(filepath.Dir(path)); mod != "" {
		prefix, _, ok := module.SplitPathVersion(mod)
		if !ok {
			prefix = mod
		}
		parts := strings.Split(prefix, "/")
		return parts[len(parts)-1] + "/" + base
	}
	return base
}

// modulePath walks up from dir to the nearest go.mod and returns its module
// path, or "" if there is none.
func modulePath(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			return modfile.ModulePath(data)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func configError(err error) error {
	return drifterrors.New("config", drifterrors.KindConfig, err)
}
