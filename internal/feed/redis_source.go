package feed

import (
	"context"

	"github.com/ELGOKU23/corte/internal/dto"
	"github.com/ELGOKU23/corte/internal/repository"

	"github.com/redis/go-redis/v9"
)

// CanalCambios is the pub/sub channel every write path publishes to after a
// successful mutation of the corte collection.
const CanalCambios = "cortes:cambios"

// RedisSource implements Source on top of redis pub/sub plus the repository.
// Each Subscribe call opens a brand-new PubSub — a retry never resumes the
// previous subscription.
type RedisSource struct {
	rdb  *redis.Client
	repo repository.CorteRepository
}

func NewRedisSource(rdb *redis.Client, repo repository.CorteRepository) *RedisSource {
	return &RedisSource{rdb: rdb, repo: repo}
}

func (s *RedisSource) Subscribe(ctx context.Context) (<-chan struct{}, func(), error) {
	pubsub := s.rdb.Subscribe(ctx, CanalCambios)

	// Force the subscription handshake so failures surface here, not on the
	// first receive.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	events := make(chan struct{})
	go func() {
		defer close(events)
		for range pubsub.Channel() {
			select {
			case events <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() { _ = pubsub.Close() }
	return events, stop, nil
}

func (s *RedisSource) Load(ctx context.Context) ([]dto.CorteResponse, error) {
	cortes, err := s.repo.ListOrdenado(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CorteResponse, 0, len(cortes))
	for i := range cortes {
		out = append(out, *dto.FromCorte(&cortes[i]))
	}
	return out, nil
}

// Publisher notifies feed sessions that the collection changed.
type Publisher struct{ rdb *redis.Client }

func NewPublisher(rdb *redis.Client) *Publisher { return &Publisher{rdb: rdb} }

// Publish is best-effort: a missed notification only delays the next
// snapshot until the following change.
func (p *Publisher) Publish(ctx context.Context) error {
	return p.rdb.Publish(ctx, CanalCambios, "changed").Err()
}
