// Package mcp assembles the model-context-protocol server manifest
// (.mcp.json) from the bucket template and the resolved toggle vector.
//
// The template keeps every candidate server in one file, grouped under
// synthetic placeholder keys. Assembly merges the enabled buckets, in a
// fixed precedence order, into a flat server map; placeholder keys never
// reach the output.
package mcp

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/agentpod-labs/agentpod/internal/devcontainer"
	"github.com/agentpod-labs/agentpod/internal/schema"
)

var (
	// ErrTemplateMissingBucket indicates an enabled toggle whose bucket is
	// absent from the template — the installation is broken.
	ErrTemplateMissingBucket = errors.New("mcp template missing bucket")

	// ErrTemplateConflict indicates the same server id appears in more than
	// one bucket. Buckets are disjoint by construction; a collision is an
	// error, never a silent overwrite.
	ErrTemplateConflict = errors.New("mcp template server conflict")

	// ErrTemplateInvalid indicates the template itself is not the expected
	// shape (no mcpServers object).
	ErrTemplateInvalid = errors.New("mcp template invalid")
)

// bucket pairs a placeholder key with the toggle that enables it. Order in
// this slice is the merge precedence and therefore the key order of the
// assembled manifest.
type bucket struct {
	key     string
	enabled func(devcontainer.Toggles) bool
}

var buckets = []bucket{
	{"__CONDITIONAL_TASKMASTER__", func(t devcontainer.Toggles) bool { return t.InstallTaskMaster }},
	{"__SUPERCLAUDE_CORE__", func(t devcontainer.Toggles) bool { return t.SuperClaude.Core }},
	{"__SUPERCLAUDE_UI__", func(t devcontainer.Toggles) bool { return t.SuperClaude.UI }},
	{"__SUPERCLAUDE_CODEOPS__", func(t devcontainer.Toggles) bool { return t.SuperClaude.CodeOps }},
}

//go:embed schema/mcp.schema.json
var manifestSchema []byte

var (
	compileOnce sync.Once
	validator   *schema.Validator
	compileErr  error
)

func getValidator() (*schema.Validator, error) {
	compileOnce.Do(func() {
		validator, compileErr = schema.Compile("mcp.schema.json", manifestSchema)
	})
	return validator, compileErr
}

// Assemble builds the serialised manifest {"mcpServers": …} from the bucket
// template under the given toggles.
//
// Output is order-stable: server ids appear in bucket precedence order, then
// in original template order within a bucket. Identical inputs yield
// byte-identical output, so scaffolding is byte-reproducible.
func Assemble(template []byte, t devcontainer.Toggles) ([]byte, error) {
	servers := gjson.GetBytes(template, "mcpServers")
	if !servers.IsObject() {
		return nil, fmt.Errorf("%w: no mcpServers object", ErrTemplateInvalid)
	}

	type entry struct {
		id  string
		raw []byte
	}
	var entries []entry
	seen := make(map[string]string) // server id → bucket that contributed it

	for _, b := range buckets {
		if !b.enabled(t) {
			continue
		}
		sub := servers.Get(b.key)
		if !sub.IsObject() {
			return nil, fmt.Errorf("%w: %s", ErrTemplateMissingBucket, b.key)
		}

		var iterErr error
		sub.ForEach(func(key, value gjson.Result) bool {
			id := key.String()
			if prev, dup := seen[id]; dup {
				iterErr = fmt.Errorf("%w: %s appears in %s and %s", ErrTemplateConflict, id, prev, b.key)
				return false
			}
			seen[id] = b.key

			var compact bytes.Buffer
			if err := json.Compact(&compact, []byte(value.Raw)); err != nil {
				iterErr = fmt.Errorf("%w: server %s: %v", ErrTemplateInvalid, id, err)
				return false
			}
			entries = append(entries, entry{id: id, raw: compact.Bytes()})
			return true
		})
		if iterErr != nil {
			return nil, iterErr
		}
	}

	// Emit in insertion order; encoding/json maps would sort and lose the
	// bucket precedence, so the object is written by hand.
	var compact bytes.Buffer
	compact.WriteString(`{"mcpServers":{`)
	for i, e := range entries {
		if i > 0 {
			compact.WriteByte(',')
		}
		idKey, _ := json.Marshal(e.id)
		compact.Write(idKey)
		compact.WriteByte(':')
		compact.Write(e.raw)
	}
	compact.WriteString("}}")

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("formatting manifest: %w", err)
	}
	out.WriteByte('\n')

	manifest := out.Bytes()
	if err := validate(manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

// validate checks the assembled manifest against the embedded schema. The
// schema rejects placeholder-shaped keys, so a leak fails here rather than
// downstream.
func validate(manifest []byte) error {
	v, err := getValidator()
	if err != nil {
		return err
	}
	issues, err := v.Validate(manifest)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return fmt.Errorf("assembled manifest invalid: %s", issues[0])
	}
	return nil
}

// ServerIDs returns the manifest's server ids in document order.
func ServerIDs(manifest []byte) []string {
	var ids []string
	gjson.GetBytes(manifest, "mcpServers").ForEach(func(key, _ gjson.Result) bool {
		ids = append(ids, key.String())
		return true
	})
	return ids
}
