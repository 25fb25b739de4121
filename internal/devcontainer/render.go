// Package devcontainer renders the container definition, extracts the
// effective feature toggles from it, and composes the lifecycle command.
//
// The rendered definition is the source of truth for the toggle vector: the
// MCP manifest and the lifecycle command are both derived from what the
// definition's features map says, never from independent inputs.
package devcontainer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tidwall/jsonc"

	"github.com/agentpod-labs/agentpod/internal/schema"
)

// ErrRenderInvalid indicates the comment-stripped container definition does
// not parse (or fails schema validation). This is an installer bug, not user
// error.
var ErrRenderInvalid = errors.New("rendered container definition invalid")

// placeholder is the literal the template carries where the project name
// belongs.
const placeholder = "$PROJECT_NAME"

//go:embed schema/devcontainer.schema.json
var devcontainerSchema []byte

var (
	compileOnce sync.Once
	validator   *schema.Validator
	compileErr  error
)

func getValidator() (*schema.Validator, error) {
	compileOnce.Do(func() {
		validator, compileErr = schema.Compile("devcontainer.schema.json", devcontainerSchema)
	})
	return validator, compileErr
}

// Render substitutes the project name into the container-definition template
// and normalises it to strict JSON: whole-line comments are removed, trailing
// comments are trimmed, and blank lines are dropped. The template uses
// comments for human guidance; downstream tooling assumes strict JSON, so
// the scaffolder normalises exactly once.
//
// Rendering is deterministic: identical inputs yield byte-identical output.
func Render(template []byte, projectName string) ([]byte, error) {
	out := bytes.ReplaceAll(template, []byte(placeholder), []byte(projectName))

	// jsonc replaces comment bytes with spaces, which keeps it correct for
	// "//" inside string values; the whitespace is then collapsed per line.
	out = dropBlankLines(jsonc.ToJSON(out))

	if !json.Valid(out) {
		return nil, fmt.Errorf("%w: not parseable after comment stripping", ErrRenderInvalid)
	}

	v, err := getValidator()
	if err != nil {
		return nil, err
	}
	issues, err := v.Validate(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderInvalid, err)
	}
	if len(issues) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrRenderInvalid, issues[0])
	}

	return out, nil
}

// dropBlankLines trims trailing whitespace from every line and removes lines
// that are whitespace-only, preserving the order of the rest.
func dropBlankLines(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	out := make([][]byte, 0, len(lines))
	for _, line := range lines {
		line = bytes.TrimRight(line, " \t\r")
		if len(line) == 0 {
			continue
		}
		out = append(out, line)
	}
	result := bytes.Join(out, []byte("\n"))
	return append(result, '\n')
}
