package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agentpod-labs/agentpod/internal/branding"
)

func TestDoctorReportsEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(branding.EnvVar("color"), "never")

	var buf bytes.Buffer
	doctorCmd.SetOut(&buf)
	defer doctorCmd.SetOut(nil)
	if err := doctorCmd.RunE(doctorCmd, nil); err != nil {
		t.Fatalf("doctor error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, branding.EnvVar("color")+"=never") {
		t.Errorf("doctor output missing active override:\n%s", out)
	}
	if !strings.Contains(out, branding.EnvVar("certs_extra_path")) {
		t.Errorf("doctor output missing certificate override var:\n%s", out)
	}
}
