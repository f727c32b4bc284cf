package health

import "context"

// HealthPinger can be implemented by stores to expose a cheap connectivity
// probe. HealthPing must return nil when the component is reachable.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
