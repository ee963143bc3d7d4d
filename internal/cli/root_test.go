package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritesToTerminal(t *testing.T) {
	for _, out := range []string{"", "stdout", "STDERR"} {
		assert.True(t, writesToTerminal(out), out)
	}
	for _, out := range []string{"discard", "/var/log/quyca.log"} {
		assert.False(t, writesToTerminal(out), out)
	}
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"dashboard", "run", "export", "show", "simulate", "classify", "alerts", "manual", "contacts", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	_, ok := dashboardCmd.Annotations[tuiAnnotation]
	assert.True(t, ok, "dashboard owns the terminal")
	_, ok = runCmd.Annotations[tuiAnnotation]
	assert.False(t, ok)
}
