package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vulntor/evdispatch/cmd/evdispatch/internal/trace"
	"github.com/vulntor/evdispatch/pkg/config"
	"github.com/vulntor/evdispatch/pkg/dispatch"
	"github.com/vulntor/evdispatch/pkg/event"
	"github.com/vulntor/evdispatch/pkg/version"
)

// listener2 outranks listener1 on both events; listener3 only handles closed.
const testManifest = `
log:
  level: error
dispatch:
  events: [opened, closed]
  listeners:
    - name: listener1
      priorities: {opened: 1}
    - name: listener2
      priorities: {opened: 3, closed: 2}
    - name: listener3
      handles: [closed]
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionWithoutManifest(t *testing.T) {
	out, _, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "evdispatch version: "+version.Version+"\n", out)
}

func TestRejectsUnknownOutputMode(t *testing.T) {
	_, _, err := run(t, "table", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output mode")
}

func TestTableCommand_JSON(t *testing.T) {
	path := writeManifest(t, testManifest)

	out, _, err := run(t, "table", "-c", path, "-o", "json")
	require.NoError(t, err)

	var view tableView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, []string{"opened", "closed"}, view.Events)
	assert.Equal(t, []string{"listener1", "listener2", "listener3"}, view.Listeners)

	want := []entryView{
		{Position: 0, Listener: 1, Name: "listener2", Event: "opened", Priority: 3},
		{Position: 1, Listener: 1, Name: "listener2", Event: "closed", Priority: 2},
		{Position: 2, Listener: 0, Name: "listener1", Event: "opened", Priority: 1},
		{Position: 3, Listener: 0, Name: "listener1", Event: "closed", Priority: 0},
		{Position: 4, Listener: 2, Name: "listener3", Event: "opened", Priority: 0},
		{Position: 5, Listener: 2, Name: "listener3", Event: "closed", Priority: 0},
	}
	assert.Equal(t, want, view.Entries)
}

func TestTableCommand_Table(t *testing.T) {
	path := writeManifest(t, testManifest)

	out, _, err := run(t, "table", "-c", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Pos")
	assert.Contains(t, out, "listener2")
	assert.Contains(t, out, "6 entries (3 listeners x 2 events)")
}

func TestTableCommand_QuietDropsSummary(t *testing.T) {
	path := writeManifest(t, testManifest)

	out, _, err := run(t, "table", "-c", path, "-q")
	require.NoError(t, err)
	assert.NotContains(t, out, "entries (")
}

func TestTableCommand_NoEvents(t *testing.T) {
	_, _, err := run(t, "table")
	require.ErrorIs(t, err, event.ErrNoEvents)
	assert.Equal(t, 2, ExitCode(err))
}

func TestTableCommand_StrictRejectsPartialHandlers(t *testing.T) {
	path := writeManifest(t, testManifest)

	_, _, err := run(t, "table", "-c", path, "--strict")
	require.ErrorIs(t, err, dispatch.ErrMissingHandler)
	assert.Equal(t, 2, ExitCode(err))
}

func TestTableCommand_InvalidPriority(t *testing.T) {
	path := writeManifest(t, `
dispatch:
  events: [opened]
  listeners:
    - name: listener1
      priorities: {opened: 300}
`)

	_, _, err := run(t, "table", "-c", path)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Equal(t, 2, ExitCode(err))
	assert.Equal(t, "CONFIG_INVALID", ErrorCode(err))
}

func TestTableCommand_VersionRequirement(t *testing.T) {
	orig := version.Version
	version.Version = "1.0.0"
	t.Cleanup(func() { version.Version = orig })

	path := writeManifest(t, "dispatch:\n  requires: \">= 2.0.0\"\n  events: [opened]\n")

	_, _, err := run(t, "table", "-c", path)
	require.ErrorIs(t, err, version.ErrIncompatible)
	assert.Equal(t, 2, ExitCode(err))
}

func TestTableCommand_UnparsableVersionRequirement(t *testing.T) {
	path := writeManifest(t, "dispatch:\n  requires: \"newer than 1.0\"\n  events: [opened]\n")

	_, _, err := run(t, "table", "-c", path)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "Dispatch.Requires")
	assert.Equal(t, "CONFIG_INVALID", ErrorCode(err))
	assert.Equal(t, 2, ExitCode(err))
}

func TestExitCode_InvalidConstraint(t *testing.T) {
	err := version.CheckVersion("1.0.0", "newer than 1.0")
	assert.Equal(t, "CONFIG_INVALID", ErrorCode(err))
	assert.Equal(t, 2, ExitCode(err))
}

func TestOrderCommand_YAML(t *testing.T) {
	path := writeManifest(t, testManifest)

	out, _, err := run(t, "order", "opened", "-c", path, "-o", "yaml")
	require.NoError(t, err)

	var view orderView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, "opened", view.Event)
	assert.Equal(t, []orderStep{
		{Step: 1, Listener: 1, Name: "listener2", Priority: 3, Handles: true},
		{Step: 2, Listener: 0, Name: "listener1", Priority: 1, Handles: true},
		{Step: 3, Listener: 2, Name: "listener3", Priority: 0, Handles: false},
	}, view.Order)
}

func TestOrderCommand_UnregisteredEvent(t *testing.T) {
	path := writeManifest(t, testManifest)

	_, _, err := run(t, "order", "reset", "-c", path)
	require.ErrorIs(t, err, dispatch.ErrUnregisteredEvent)
	assert.Contains(t, err.Error(), "reset")
	assert.Equal(t, 2, ExitCode(err))
}

func TestOrderCommand_RequiresEvent(t *testing.T) {
	path := writeManifest(t, testManifest)
	_, _, err := run(t, "order", "-c", path)
	require.Error(t, err)
}

func TestFireCommand_Trace(t *testing.T) {
	path := writeManifest(t, testManifest)

	out, _, err := run(t, "fire", "opened", "-c", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "  1. -> listener2 (#1) <- opened [priority 3]")
	assert.Contains(t, out, "  2. -> listener1 (#0) <- opened [priority 1]")
	assert.NotContains(t, out, "listener3", "listener3 does not handle opened")
	assert.Contains(t, out, "opened fired 1 time(s), 2 deliveries")
}

func TestFireCommand_JSON(t *testing.T) {
	path := writeManifest(t, testManifest)

	out, _, err := run(t, "fire", "closed", "-c", path, "-o", "json")
	require.NoError(t, err)

	var view fireView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 1, view.Fires)
	require.Len(t, view.Deliveries, 3)

	names := []string{view.Deliveries[0].Name, view.Deliveries[1].Name, view.Deliveries[2].Name}
	assert.Equal(t, []string{"listener2", "listener1", "listener3"}, names)
	assert.Empty(t, view.Error)
	assert.Empty(t, view.Metrics)
}

func TestFireCommand_Metrics(t *testing.T) {
	path := writeManifest(t, testManifest)

	out, _, err := run(t, "fire", "opened", "-c", path, "-o", "json", "--times", "2", "--metrics")
	require.NoError(t, err)

	var view fireView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 2, view.Fires)
	assert.Len(t, view.Deliveries, 4)
	assert.Equal(t, 2.0, view.Metrics["evdispatch_dispatch_fires_total{event=opened}"])
	assert.Equal(t, 4.0, view.Metrics["evdispatch_dispatch_deliveries_total{event=opened}"])
	assert.Equal(t, 6.0, view.Metrics["evdispatch_dispatch_table_entries"])
}

func TestFireCommand_MetricsText(t *testing.T) {
	path := writeManifest(t, testManifest)

	out, _, err := run(t, "fire", "opened", "-c", path, "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, `evdispatch_dispatch_fires_total{event="opened"} 1`)
	assert.Contains(t, out, "# TYPE evdispatch_dispatch_table_entries gauge")
}

func TestFireCommand_FailingListener(t *testing.T) {
	path := writeManifest(t, testManifest)

	out, _, err := run(t, "fire", "opened", "-c", path, "--fail", "listener2", "-o", "json")
	require.Error(t, err)
	assert.ErrorIs(t, err, dispatch.ErrHandlerFailed)
	assert.ErrorIs(t, err, trace.ErrSimulatedFailure)
	assert.Equal(t, 3, ExitCode(err))

	var view fireView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Deliveries, 1, "firing stops at the failing listener")
	assert.True(t, view.Deliveries[0].Failed)
	assert.NotEmpty(t, view.Error)
}

func TestFireCommand_UnknownFailingListener(t *testing.T) {
	path := writeManifest(t, testManifest)

	_, _, err := run(t, "fire", "opened", "-c", path, "--fail", "nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nobody")
}

func TestFireCommand_InvalidTimes(t *testing.T) {
	path := writeManifest(t, testManifest)

	_, _, err := run(t, "fire", "opened", "-c", path, "--times", "0")
	require.Error(t, err)
}

func TestExecute_ReportsCodedError(t *testing.T) {
	path := writeManifest(t, testManifest)

	cmd := NewCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"order", "reset", "-c", path, "-o", "json"})

	code := Execute(cmd)
	assert.Equal(t, 2, code)

	var report map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, "DISPATCH_UNREGISTERED_EVENT", report["code"])
	assert.Equal(t, false, report["success"])
}

func TestExecute_DoesNotRepeatReportedError(t *testing.T) {
	path := writeManifest(t, testManifest)

	cmd := NewCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"fire", "opened", "-c", path, "--fail", "listener1", "-o", "json"})

	require.Equal(t, 3, Execute(cmd))

	dec := json.NewDecoder(&stdout)
	var view fireView
	require.NoError(t, dec.Decode(&view))
	assert.False(t, dec.More(), "only the fire report is written")
}

func TestExecute_Success(t *testing.T) {
	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"version"})
	assert.Equal(t, 0, Execute(cmd))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, 1, ExitCode(assert.AnError))
	assert.Equal(t, 2, ExitCode(&config.ValidationError{Field: "x", Reason: "y"}))
	assert.Equal(t, 3, ExitCode(&dispatch.HandlerError{Err: assert.AnError}))
}
