package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainya/journeylens/pkg/journey"
)

const (
	episodesJSON = `[
  {"title": "Kickoff", "date_range": "January 6 - January 12"},
  {"title": "Broken", "date_range": "TBD"}
]`
	chatsJSON = `[
  {"id": "M1", "ts": "2025-01-06 08:00", "sender": "Rohan", "role": "member", "text": "Missed my workout, stress is high"},
  {"id": "M2", "ts": "2025-01-07 09:00", "sender": "Ruby", "role": "concierge", "text": "New plan [DECISION:id=D1] drivers:M1"},
  {"id": "M3", "ts": "2025-02-03 10:00", "sender": "Advik", "role": "performance", "text": "Workout logged"}
]`
	traceJSON = `{
  "decision_id": "D1",
  "summary": "Lighter training week",
  "trigger": "Reported stress",
  "rationale": ["recovery first", "keep the habit"],
  "owner": "Ruby"
}`
)

// setupData writes a dataset and a config file pointing at it
func setupData(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, journey.DecisionsDir), 0o755))

	write := func(path, content string) {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write(filepath.Join(dataDir, journey.EpisodesFile), episodesJSON)
	write(filepath.Join(dataDir, journey.ChatsFile), chatsJSON)
	write(filepath.Join(dataDir, journey.DecisionsDir, "D1.json"), traceJSON)

	cfgPath := filepath.Join(dir, "journeyd.yaml")
	write(cfgPath, "data_dir: "+dataDir+"\nlog:\n  level: error\n")
	t.Setenv("JOURNEY_CONFIG", cfgPath)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestEpisodesCommand(t *testing.T) {
	setupData(t)

	out, err := run(t, "episodes")
	require.NoError(t, err)
	assert.Contains(t, out, "Kickoff")
	assert.Contains(t, out, "January 6 - January 12")
	assert.Contains(t, out, "Broken")
}

func TestEpisodeShowCommand(t *testing.T) {
	setupData(t)

	out, err := run(t, "episodes", "show", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Missed my workout")
	assert.Contains(t, out, "New plan")
	assert.NotContains(t, out, "Workout logged")

	out, err = run(t, "episodes", "show", "0", "--decision", "D1")
	require.NoError(t, err)
	assert.Contains(t, out, "Lighter training week")
	assert.Contains(t, out, "recovery first")

	out, err = run(t, "episodes", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "could not be read")
}

func TestEpisodeShowErrors(t *testing.T) {
	setupData(t)

	_, err := run(t, "episodes", "show", "5")
	assert.ErrorIs(t, err, journey.ErrNotFound)

	_, err = run(t, "episodes", "show", "zero")
	assert.Error(t, err)

	_, err = run(t, "episodes", "show", "0", "--decision", "D9")
	assert.ErrorIs(t, err, journey.ErrNotFound)
}

func TestChatsCommand(t *testing.T) {
	setupData(t)

	out, err := run(t, "chats", "--team")
	require.NoError(t, err)
	assert.Contains(t, out, "2 messages")
	assert.NotContains(t, out, "Rohan")

	out, err = run(t, "chats", "-q", "workout", "--from", "2025-02-01")
	require.NoError(t, err)
	assert.Contains(t, out, "1 messages")
	assert.Contains(t, out, "M3")

	_, err = run(t, "chats", "--limit", "-2")
	assert.Error(t, err)
}

func TestDecisionCommand(t *testing.T) {
	setupData(t)

	out, err := run(t, "decision", "D1")
	require.NoError(t, err)
	assert.Contains(t, out, "Reported stress")
	assert.Contains(t, out, "Owner: Ruby")

	out, err = run(t, "decision", "see", "[DECISION:id=D1]")
	require.NoError(t, err)
	assert.Contains(t, out, "Lighter training week")

	_, err = run(t, "decision", "D2")
	assert.ErrorIs(t, err, journey.ErrNotFound)
}

func TestDashboardCommand(t *testing.T) {
	setupData(t)

	out, err := run(t, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Member Adherence & Stress Trends")
	assert.Contains(t, out, "August")
	assert.Contains(t, out, "Team Engagement Distribution")
	assert.Contains(t, out, "Advik")
}

func TestWeeksCommand(t *testing.T) {
	setupData(t)

	out, err := run(t, "weeks")
	require.NoError(t, err)
	assert.Contains(t, out, "2 weeks")
	assert.Contains(t, out, "Jan 12")
	assert.Contains(t, out, "Feb 9")
}

func TestDataDirFlagOverridesConfig(t *testing.T) {
	setupData(t)

	_, err := run(t, "episodes", "--data-dir", t.TempDir())
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	setupData(t)

	_, err := run(t, "episodes", "--log-level", "loud")
	assert.Error(t, err)
}
