package queue

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const popTimeout = 5 * time.Second

// Redis is a list-backed queue; Publish pushes to the head, Consume blocks
// popping from the tail so records come out in publish order.
type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(addr, key string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		key:    key,
	}
}

func (q *Redis) Publish(ctx context.Context, payload []byte) error {
	return errors.Wrap(q.client.LPush(ctx, q.key, payload).Err(), "pushing to redis queue")
}

func (q *Redis) Consume(ctx context.Context) ([]byte, error) {
	for {
		res, err := q.client.BRPop(ctx, popTimeout, q.key).Result()
		if err == redis.Nil {
			continue // timed out empty, poll again
		}
		if err != nil {
			return nil, errors.Wrap(err, "popping from redis queue")
		}
		// BRPOP returns [key, value]
		return []byte(res[1]), nil
	}
}

func (q *Redis) Close() error {
	return q.client.Close()
}
