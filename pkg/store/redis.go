// statusboard
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/caas-team/statusboard/internal/logger"
	"github.com/caas-team/statusboard/pkg/status"
)

// DefaultRedisKey is the key the snapshot is stored under if none is configured
const DefaultRedisKey = "statusboard:snapshot"

var _ Store = (*Redis)(nil)

// Redis stores the latest snapshot as json under a single redis key.
// Several replicas can serve the snapshots published by one scheduler.
type Redis struct {
	client redis.UniversalClient
	cfg    RedisConfig
}

// NewRedis creates a redis store. The connection is established lazily.
func NewRedis(cfg RedisConfig) *Redis {
	return NewRedisWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg)
}

// NewRedisWithClient creates a redis store using an existing client
func NewRedisWithClient(client redis.UniversalClient, cfg RedisConfig) *Redis {
	if cfg.Key == "" {
		cfg.Key = DefaultRedisKey
	}
	return &Redis{client: client, cfg: cfg}
}

// Publish writes the snapshot with a single SET so readers never see a partial snapshot
func (r *Redis) Publish(ctx context.Context, snap status.Snapshot) error {
	log := logger.FromContext(ctx)
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := r.client.Set(ctx, r.cfg.Key, b, r.cfg.TTL).Err(); err != nil {
		log.ErrorContext(ctx, "Failed to publish snapshot", "key", r.cfg.Key, "error", err)
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}
	return nil
}

// Latest reads the snapshot from redis
func (r *Redis) Latest(ctx context.Context) (status.Snapshot, bool, error) {
	b, err := r.client.Get(ctx, r.cfg.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return status.Snapshot{}, false, nil
	}
	if err != nil {
		return status.Snapshot{}, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap status.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return status.Snapshot{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Close closes the underlying redis client
func (r *Redis) Close() error {
	return r.client.Close()
}
