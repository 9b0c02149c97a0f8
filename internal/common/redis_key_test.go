package common

import (
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedisKeyPatterns(t *testing.T) {
	match := func(pattern, key string) bool {
		ok, err := path.Match(pattern, key)
		require.NoError(t, err)
		return ok
	}

	require.True(t, match(RedisPatternEventList(), RedisKeyEventListByUserAndStatus("u", "NOW", 1, 10)))
	require.True(t, match(RedisPatternEventList(), RedisKeyEventListByStatus("", 1, 10)))
	require.False(t, match(RedisPatternEventList(), RedisKeyEvent("e")))
	require.False(t, match(RedisPatternEventList(), RedisKeyEventWithAwards("e")))

	require.True(t, match(RedisPatternCardsByEvent("e"), RedisKeyCardListByEvent("e", 2, 10)))
	require.True(t, match(RedisPatternCardsByEvent("e"), RedisKeyCardCountByEvent("e")))
	require.False(t, match(RedisPatternCardsByEvent("e"), RedisKeyCardListByEvent("e2", 2, 10)))

	require.True(t, match(RedisPatternAwardsByEvent("e"), RedisKeyAwardsByEvent("e")))
	require.True(t, match(RedisPatternAwardsByEvent("e"), RedisKeyWinnersByEvent("e")))

	require.Equal(t, "room:e", RedisKeyRoom("e", ""))
	require.Equal(t, "room:e:vip", RedisKeyRoom("e", "vip"))
	require.Equal(t, "e", FromRedisKeyRoom(RedisKeyRoom("e", "vip")))
	require.Equal(t, "e", FromRedisKeyRoom(RedisKeyRoom("e", "")))

	require.True(t, match(RedisPatternScopedRooms("e"), RedisKeyRoom("e", "vip")))
	require.False(t, match(RedisPatternScopedRooms("e"), RedisKeyRoom("e", "")))
	require.False(t, match(RedisPatternScopedRooms("e"), RedisKeyRoom("e2", "vip")))
	require.False(t, match(RedisPatternScopedRooms("e"), RedisKeyRoomInfo("e")))
	require.NotEqual(t, RedisKeyRoom("e", "info"), RedisKeyRoomInfo("e"))
}
