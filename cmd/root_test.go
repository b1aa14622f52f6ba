package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/iksnae/hajimi/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so one test's arguments do
// not leak into the next Execute
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// isolateEnv points configuration at temporary locations and clears the
// variables a developer machine may have set
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{internal.KeyAPIKey, internal.KeyModel, internal.KeySystemPrompt, internal.KeyEditor,
		internal.KeyTemperature, internal.KeyMaxOutputTokens, internal.KeyModelsTTL} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv(internal.KeyCacheDir, dir+"/cache")
	t.Setenv(internal.KeyJournal, dir+"/journal.db")
	return dir
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "version flag", args: []string{"--version"}, want: "dev"},
		{name: "help for subcommand", args: []string{"help", "show"}, want: "show <file>"},
		{name: "unknown command", args: []string{"nonexistent-command"}, wantErr: true},
		{name: "chat requires api key", args: []string{}, wantErr: true},
		{name: "explicit env file must exist", args: []string{"--env-file", "missing.env"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := executeCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if tt.want != "" && !strings.Contains(stdout, tt.want) {
				t.Errorf("Execute(%v) output missing %q:\n%s", tt.args, tt.want, stdout)
			}
		})
	}
}

func TestChat_MissingKeyNamesVariable(t *testing.T) {
	isolateEnv(t)
	_, _, err := executeCommand(t, "--model", "gemini-2.5-pro")
	if err == nil || !strings.Contains(err.Error(), internal.KeyAPIKey) {
		t.Errorf("Execute() error = %v, want mention of %s", err, internal.KeyAPIKey)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"models", "show", "export", "recent", "healthcheck"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
