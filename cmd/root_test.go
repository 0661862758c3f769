package cmd

import (
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"serve", "snapshot", "observe", "do", "capabilities"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestServeCommand_Flags(t *testing.T) {
	for _, name := range []string{"transport", "port", "cache-ttl", "collect-timeout", "tree-depth",
		"tree-breadth", "screenshot-max-side", "annotate-cursor", "observe-file", "metrics-addr",
		"log-level", "log-format"} {
		if serveCmd.Flags().Lookup(name) == nil {
			t.Errorf("serve is missing --%s", name)
		}
	}
}
