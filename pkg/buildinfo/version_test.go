package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplateIncludesFields(t *testing.T) {
	tmpl := Template()
	for _, want := range []string{Version, Commit, Date, "{{.Name}}"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() = %q, missing %q", tmpl, want)
		}
	}
	if got := UserAgent(); got != "snapguide/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
