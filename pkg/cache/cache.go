package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ThreatPilot/SentinelRail/pkg/common"
	"github.com/ThreatPilot/SentinelRail/pkg/domain/guardrail"
	"github.com/ThreatPilot/SentinelRail/pkg/resolver"
	"github.com/go-redis/redis/v8"
)

// Cache layers a local sync.Map over redis so hot lookups stay in-process
// while invalidation still propagates across engine replicas.
type Cache struct {
	client     *redis.Client
	localCache sync.Map
	ttlMaps    sync.Map
	ttl        time.Duration
}

const (
	GuardrailKeyPattern    = "guardrail:%s"
	GuardrailsKey          = "guardrails:all"
	FunctionRulesPattern   = "guardrails:function:%s"
	OverridesKeyPattern    = "overrides:function:%s"
	EffectiveSetKeyPattern = "effective:%s:%s"

	GuardrailTTLName = "guardrail"
	EffectiveTTLName = "effective"
	OverrideTTLName  = "override"
)

func NewCache(config common.CacheConfig) (*Cache, error) {
	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	}
	if config.TLS {
		options.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		}
	}
	client := redis.NewClient(options)

	return &Cache{
		client:     client,
		localCache: sync.Map{},
		ttlMaps:    sync.Map{},
		ttl:        common.EffectiveSetCacheTTL,
	}, nil
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if value, ok := c.localCache.Load(key); ok {
		str, err := safeStringCast(value)
		if err != nil {
			return "", fmt.Errorf("cache value error: %w", err)
		}
		return str, nil
	}
	return c.client.Get(ctx, key).Result()
}

func (c *Cache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return err
	}
	c.localCache.Store(key, value)
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return err
	}
	c.localCache.Delete(key)
	return nil
}

// DeletePattern removes every redis key matching the pattern and the local
// mirror of each. Used for effective-set invalidation after registry writes.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("error scanning keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("error deleting keys: %w", err)
			}
			for _, key := range keys {
				c.localCache.Delete(key)
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

// DeleteEffectiveSets drops every cached resolution; called on any
// definition-level mutation, which can affect all functions.
func (c *Cache) DeleteEffectiveSets(ctx context.Context) error {
	return c.DeletePattern(ctx, "effective:*")
}

// DeleteFunctionData drops the per-function caches (effective sets, scoped
// rules, overrides) after an override mutation.
func (c *Cache) DeleteFunctionData(ctx context.Context, functionID string) error {
	if err := c.DeletePattern(ctx, fmt.Sprintf("effective:%s:*", functionID)); err != nil {
		return err
	}
	if err := c.Delete(ctx, fmt.Sprintf(FunctionRulesPattern, functionID)); err != nil && err != redis.Nil {
		return err
	}
	if err := c.Delete(ctx, fmt.Sprintf(OverridesKeyPattern, functionID)); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

// FlushLocal clears only the in-process mirror. Invalidation events from
// other replicas call this; redis itself was already updated by the writer.
func (c *Cache) FlushLocal() {
	c.localCache.Range(func(key, _ interface{}) bool {
		c.localCache.Delete(key)
		return true
	})
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

func (c *Cache) CreateTTLMap(name string, ttl time.Duration) *common.TTLMap {
	ttlMap := common.NewTTLMap(ttl)
	c.ttlMaps.Store(name, ttlMap)
	return ttlMap
}

func (c *Cache) GetTTLMap(name string) *common.TTLMap {
	if value, ok := c.ttlMaps.Load(name); ok {
		ttlMap, err := safeTTLMapCast(value)
		if err != nil {
			return nil
		}
		return ttlMap
	}
	return nil
}

func (c *Cache) SaveEffectiveSet(ctx context.Context, set *resolver.EffectiveSet) error {
	key := fmt.Sprintf(EffectiveSetKeyPattern, set.FunctionID, set.Platform)
	setJSON, err := json.Marshal(set)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(setJSON), common.EffectiveSetCacheTTL)
}

func (c *Cache) GetEffectiveSet(ctx context.Context, functionID, platform string) (*resolver.EffectiveSet, error) {
	key := fmt.Sprintf(EffectiveSetKeyPattern, functionID, platform)
	res, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	set := new(resolver.EffectiveSet)
	if err := json.Unmarshal([]byte(res), set); err != nil {
		return nil, err
	}
	return set, nil
}

func (c *Cache) SaveGuardrail(ctx context.Context, def *guardrail.Guardrail) error {
	key := fmt.Sprintf(GuardrailKeyPattern, def.ID)
	defJSON, err := json.Marshal(def)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(defJSON), common.GuardrailCacheTTL)
}

func (c *Cache) GetGuardrail(ctx context.Context, id string) (*guardrail.Guardrail, error) {
	key := fmt.Sprintf(GuardrailKeyPattern, id)
	res, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	def := new(guardrail.Guardrail)
	if err := json.Unmarshal([]byte(res), def); err != nil {
		return nil, err
	}
	return def, nil
}

func safeStringCast(value interface{}) (string, error) {
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("invalid type assertion to string")
	}
	return str, nil
}

func safeTTLMapCast(value interface{}) (*common.TTLMap, error) {
	ttlMap, ok := value.(*common.TTLMap)
	if !ok {
		return nil, fmt.Errorf("invalid type assertion to TTLMap")
	}
	return ttlMap, nil
}
