package event

import "reflect"

type Event interface {
	Type() string
}

var (
	DeleteGuardrailCacheEventType = "DeleteGuardrailCacheEvent"
	DeleteFunctionCacheEventType  = "DeleteFunctionCacheEvent"
	FlushGuardrailCacheEventType  = "FlushGuardrailCacheEvent"
)

var Registry = map[string]reflect.Type{
	DeleteGuardrailCacheEventType: reflect.TypeOf(DeleteGuardrailCacheEvent{}),
	DeleteFunctionCacheEventType:  reflect.TypeOf(DeleteFunctionCacheEvent{}),
	FlushGuardrailCacheEventType:  reflect.TypeOf(FlushGuardrailCacheEvent{}),
}
