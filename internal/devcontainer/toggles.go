package devcontainer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrToggleParse indicates a malformed feature option — most notably the
// embedded SuperClaude JSON string.
var ErrToggleParse = errors.New("parsing feature toggles")

// featureName is the local feature whose options carry the toggle vector.
const featureName = "agent-tools"

// SuperClaude selects which SuperClaude server categories are enabled.
// On disk it is carried as a JSON string inside the feature options, because
// the feature-option schema only accepts scalar values. The string is the
// canonical form; decode on read, re-encode on write.
type SuperClaude struct {
	Core    bool `json:"core"`
	UI      bool `json:"ui"`
	CodeOps bool `json:"codeOps"`
}

// Enabled reports whether any category is selected.
func (s SuperClaude) Enabled() bool {
	return s.Core || s.UI || s.CodeOps
}

// Encode returns the canonical on-disk string form.
func (s SuperClaude) Encode() string {
	data, _ := json.Marshal(s)
	return string(data)
}

// Toggles is the effective feature vector extracted from the rendered
// container definition. It is constructed once per scaffolding run and
// immutable thereafter.
type Toggles struct {
	InstallTaskMaster       bool
	InstallDevcontainersCLI bool
	InstallGitDelta         bool
	SuperClaude             SuperClaude
	AddLLAlias              bool
	ExtraNpmPackages        []string
}

// defaultToggles returns the vector used when an option (or the whole
// feature) is absent from the definition.
func defaultToggles() Toggles {
	return Toggles{
		InstallTaskMaster:       false,
		InstallDevcontainersCLI: true,
		InstallGitDelta:         true,
		SuperClaude:             SuperClaude{Core: true, UI: true, CodeOps: true},
		AddLLAlias:              false,
	}
}

// ResolveToggles extracts the toggle vector from a rendered (strict JSON)
// container definition. Missing options take their defaults; unknown extra
// options are ignored.
func ResolveToggles(rendered []byte) (Toggles, error) {
	t := defaultToggles()

	features := gjson.GetBytes(rendered, "features")
	if !features.Exists() {
		return t, nil
	}

	var opts gjson.Result
	features.ForEach(func(key, value gjson.Result) bool {
		if isAgentToolsFeature(key.String()) {
			opts = value
			return false
		}
		return true
	})
	if !opts.Exists() {
		return t, nil
	}

	var err error
	set := func(name string, dst *bool) {
		if err != nil {
			return
		}
		v := opts.Get(name)
		if !v.Exists() {
			return
		}
		*dst, err = asBool(name, v)
	}

	set("installTaskMaster", &t.InstallTaskMaster)
	set("installDevcontainersCLI", &t.InstallDevcontainersCLI)
	set("installGitDelta", &t.InstallGitDelta)
	set("addLLAlias", &t.AddLLAlias)
	if err != nil {
		return Toggles{}, err
	}

	if v := opts.Get("installSuperClaude"); v.Exists() {
		if v.Type != gjson.String {
			return Toggles{}, fmt.Errorf("%w: installSuperClaude must be a JSON string, got %s", ErrToggleParse, v.Type)
		}
		var sc SuperClaude
		if err := json.Unmarshal([]byte(v.String()), &sc); err != nil {
			return Toggles{}, fmt.Errorf("%w: installSuperClaude %q: %v", ErrToggleParse, v.String(), err)
		}
		t.SuperClaude = sc
	}

	if v := opts.Get("extraNpmPackages"); v.Exists() {
		t.ExtraNpmPackages = splitPackages(v.String())
	}

	return t, nil
}

// isAgentToolsFeature matches the "./features/agent-tools" selector,
// tolerating a different relative prefix.
func isAgentToolsFeature(key string) bool {
	if !strings.HasPrefix(key, "./") {
		return false
	}
	return strings.HasSuffix(key, "/"+featureName)
}

// asBool accepts JSON booleans and the strings "true"/"false"; feature
// metadata in the wild uses both encodings.
func asBool(name string, v gjson.Result) (bool, error) {
	switch v.Type {
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	case gjson.String:
		switch v.String() {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: option %s has non-boolean value %s", ErrToggleParse, name, v.Raw)
}

// splitPackages parses the comma-separated package list, preserving order
// and dropping empty entries.
func splitPackages(s string) []string {
	var pkgs []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			pkgs = append(pkgs, part)
		}
	}
	return pkgs
}
