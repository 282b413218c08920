package channel

type Channel string

const (
	GuardrailEventsChannel Channel = "guardrail_events"
)
