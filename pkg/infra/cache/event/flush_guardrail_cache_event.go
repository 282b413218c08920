package event

// FlushGuardrailCacheEvent is published after bulk definition changes, such as
// seeding the built-in catalog, when per-key invalidation is not worth it.
type FlushGuardrailCacheEvent struct{}

func (e FlushGuardrailCacheEvent) Type() string {
	return FlushGuardrailCacheEventType
}
