// Package certs copies a corporate root certificate from the host into the
// scaffolded tree, best-effort. The runtime certificate script handles both
// the present and absent cases, so a miss is advisory, never fatal.
package certs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentpod-labs/agentpod/internal/fsutil"
)

// DestName is the file name the certificate takes inside
// <project>/.devcontainer/certs/.
const DestName = "zscaler.crt"

// ProbePaths returns the ordered list of host paths searched for the
// certificate. Extra paths (from config) are probed first.
func ProbePaths(home string, extra []string) []string {
	paths := append([]string{}, extra...)
	paths = append(paths,
		filepath.Join(home, ".ssl", "certs", "zscaler.crt"),
		filepath.Join(home, "Downloads", "zscaler-root-ca.crt"),
		filepath.Join(home, "Downloads", "ZScaler Root CA.crt"),
		"/usr/local/share/ca-certificates/zscaler.crt",
	)
	return paths
}

// Probe returns the first readable certificate among the probe paths, or
// found=false when none exists. A miss is not an error.
func Probe(home string, extra []string) (path string, found bool) {
	for _, p := range ProbePaths(home, extra) {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		f.Close()
		return p, true
	}
	return "", false
}

// Install copies the certificate at src byte-for-byte into
// <certsDir>/zscaler.crt.
func Install(src, certsDir string) error {
	dst := filepath.Join(certsDir, DestName)
	if err := fsutil.CopyFile(src, dst); err != nil {
		return fmt.Errorf("installing certificate: %w", err)
	}
	return nil
}
