package devcontainer

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"
)

// Lifecycle step commands, in execution order. Certificate trust must be in
// place before the firewall resolves allowlisted domains; SuperClaude setup
// needs both.
const (
	stepCertificates = "bash .devcontainer/scripts/setup-certificates.sh"
	stepFirewall     = "sudo bash .devcontainer/scripts/init-firewall.sh"
	stepSuperClaude  = "bash .devcontainer/scripts/setup-superclaude.sh"
)

// ComposeLifecycle returns the postCreateCommand string: an &&-join of the
// runtime scripts whose features are enabled. Certificates and firewall
// always run; SuperClaude setup runs iff any category is enabled.
func ComposeLifecycle(t Toggles) string {
	steps := []string{stepCertificates, stepFirewall}
	if t.SuperClaude.Enabled() {
		steps = append(steps, stepSuperClaude)
	}
	return strings.Join(steps, " && ")
}

// SpliceLifecycle writes the composed command into the rendered definition's
// postCreateCommand field, leaving every other byte of the document alone.
func SpliceLifecycle(rendered []byte, command string) ([]byte, error) {
	out, err := sjson.SetBytes(rendered, "postCreateCommand", command)
	if err != nil {
		return nil, fmt.Errorf("setting postCreateCommand: %w", err)
	}
	return out, nil
}
