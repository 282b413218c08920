package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/resolver"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedCache(t *testing.T) (*Cache, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	return &Cache{client: db, ttl: 5 * time.Minute}, mock
}

func TestSetStoresLocallyAndInRedis(t *testing.T) {
	c, mock := newMockedCache(t)
	mock.ExpectSet("guardrail:x", "payload", time.Minute).SetVal("OK")

	err := c.Set(context.Background(), "guardrail:x", "payload", time.Minute)
	require.NoError(t, err)

	// A second read never touches redis: the local mirror answers.
	value, err := c.Get(context.Background(), "guardrail:x")
	require.NoError(t, err)
	assert.Equal(t, "payload", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFallsThroughToRedis(t *testing.T) {
	c, mock := newMockedCache(t)
	mock.ExpectGet("guardrail:y").SetVal("from-redis")

	value, err := c.Get(context.Background(), "guardrail:y")
	require.NoError(t, err)
	assert.Equal(t, "from-redis", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePatternScansAndDeletes(t *testing.T) {
	c, mock := newMockedCache(t)
	c.localCache.Store("effective:hunt_query:splunk", "stale")

	mock.ExpectScan(0, "effective:*", 100).SetVal([]string{"effective:hunt_query:splunk"}, 0)
	mock.ExpectDel("effective:hunt_query:splunk").SetVal(1)

	err := c.DeleteEffectiveSets(context.Background())
	require.NoError(t, err)

	_, ok := c.localCache.Load("effective:hunt_query:splunk")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEffectiveSetRoundTrip(t *testing.T) {
	c, mock := newMockedCache(t)

	set := &resolver.EffectiveSet{
		FunctionID: "ioc_extraction",
		Entries: []resolver.Entry{
			{Guardrail: guardrail.Guardrail{ID: "secret-leak-block", Enabled: true}},
		},
		Counts: resolver.Counts{Total: 1, Active: 1},
	}
	payload, err := json.Marshal(set)
	require.NoError(t, err)

	mock.ExpectGet("effective:ioc_extraction:").SetVal(string(payload))

	got, err := c.GetEffectiveSet(context.Background(), "ioc_extraction", "")
	require.NoError(t, err)
	assert.Equal(t, "ioc_extraction", got.FunctionID)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "secret-leak-block", got.Entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlushLocalClearsMirrorOnly(t *testing.T) {
	c, _ := newMockedCache(t)
	c.localCache.Store("a", "1")
	c.localCache.Store("b", "2")

	c.FlushLocal()

	_, okA := c.localCache.Load("a")
	_, okB := c.localCache.Load("b")
	assert.False(t, okA)
	assert.False(t, okB)
}
