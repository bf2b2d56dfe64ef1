package shardkey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShardIndexIsStable(t *testing.T) {
	idx1 := ShardIndex("cpu.usage", 16)
	idx2 := ShardIndex("cpu.usage", 16)
	require.Equal(t, idx1, idx2)
	require.GreaterOrEqual(t, idx1, 0)
	require.Less(t, idx1, 16)
}

func TestShardIndexZeroShardCount(t *testing.T) {
	require.Equal(t, 0, ShardIndex("anything", 0))
}

func TestDirNameRoundTrip(t *testing.T) {
	t.Run("SimpleKey", func(t *testing.T) {
		dir := DirName("cpu.usage")
		key, ok := KeyFromDirName(dir)
		require.True(t, ok)
		require.Equal(t, "cpu.usage", key)
	})

	t.Run("KeyWithSlashes", func(t *testing.T) {
		dir := DirName("host/eth0/rx")
		require.NotContains(t, dir, "/")
		key, ok := KeyFromDirName(dir)
		require.True(t, ok)
		require.Equal(t, "host/eth0/rx", key)
	})

	t.Run("InvalidDirName", func(t *testing.T) {
		_, ok := KeyFromDirName("not-hex-!!")
		require.False(t, ok)
	})
}

func TestHashDistinctForDistinctKeys(t *testing.T) {
	require.NotEqual(t, Hash("a"), Hash("b"))
}
