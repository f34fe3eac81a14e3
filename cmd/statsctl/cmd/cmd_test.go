package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/combatstats/internal/capture"
	"github.com/l1jgo/combatstats/internal/net/packet"
	"github.com/l1jgo/combatstats/internal/world"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestReplayThenTop(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COMBATSTATS_STORE_PATH", filepath.Join(dir, "stats.db"))
	t.Setenv("COMBATSTATS_COMBAT_RULES_PATH", "../../../data/yaml/npc_rules.yaml")
	t.Setenv("COMBATSTATS_LOG_LEVEL", "error")

	capPath := filepath.Join(dir, "session.cap")
	f, err := os.Create(capPath)
	require.NoError(t, err)
	w, err := capture.NewWriter(f)
	require.NoError(t, err)
	require.NoError(t, w.Write(capture.LoginRecord(world.PlayerInfo{Slot: 4, AccountID: 42, Name: "dara"})))
	require.NoError(t, w.Write(capture.NpcRecord(world.NpcSnapshot{Slot: 9, Target: 4, Life: 10, Active: true, Boss: true})))
	require.NoError(t, w.Write(capture.PacketRecord(packet.NpcStrike, 4, []byte{9, 0, 40, 0, 0})))
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	out := run(t, "--config", "", "--env-file", filepath.Join(dir, "none.env"), "replay", capPath)
	assert.Contains(t, out, "3 records, 1 packets (1 handled, 0 skipped)")

	out = run(t, "--config", "", "--env-file", filepath.Join(dir, "none.env"), "top", "-n", "5")
	assert.Contains(t, out, "RANK")
	assert.Regexp(t, `1\s+42\s+25`, out)

	out = run(t, "--config", "", "--env-file", filepath.Join(dir, "none.env"), "player", "42")
	assert.Regexp(t, `kills\s+mob 0  boss 1  player 0`, out)
	assert.Regexp(t, `damage boss_given\s+10`, out)
}

func TestPlayerRejectsBadID(t *testing.T) {
	rootCmd.SetArgs([]string{"--config", "", "player", "abc"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, rootCmd.Execute())
}
