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
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/caas-team/statusboard/pkg/status"
)

// Store is the publication sink for snapshots.
// Readers always observe either the previous or the new snapshot in full.
type Store interface {
	// Publish replaces the latest snapshot
	Publish(ctx context.Context, snap status.Snapshot) error
	// Latest returns the most recently published snapshot.
	// ok is false as long as nothing was published.
	Latest(ctx context.Context) (snap status.Snapshot, ok bool, err error)
}

// Type is the kind of store backing the published snapshots
type Type string

const (
	// MEMORY keeps the latest snapshot in process memory
	MEMORY Type = "memory"
	// REDIS keeps the latest snapshot in a redis key shared by replicas
	REDIS Type = "redis"
)

// ErrUnknownType is returned when the store type is not supported
var ErrUnknownType = errors.New("unknown store type")

// Config is the configuration of the snapshot store
type Config struct {
	Type  Type        `yaml:"type" mapstructure:"type"`
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig is the configuration of the redis store
type RedisConfig struct {
	Address  string        `yaml:"address" mapstructure:"address"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	Key      string        `yaml:"key" mapstructure:"key"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Validate checks the store configuration
func (c *Config) Validate() error {
	switch c.Type {
	case MEMORY, "":
		return nil
	case REDIS:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required for store type %q", c.Type)
		}
		if c.Redis.TTL < 0 {
			return fmt.Errorf("redis ttl must not be negative, got %s", c.Redis.TTL)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}
}

// New creates the store selected by the configuration
func New(cfg Config) (Store, error) {
	switch cfg.Type {
	case MEMORY, "":
		return NewInMemory(), nil
	case REDIS:
		return NewRedis(cfg.Redis), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}
}

var _ Store = (*InMemory)(nil)

// InMemory holds the latest snapshot in process memory
type InMemory struct {
	latest atomic.Pointer[status.Snapshot]
}

// NewInMemory creates an empty in-memory store
func NewInMemory() *InMemory {
	return &InMemory{}
}

// Publish atomically replaces the latest snapshot.
// The store keeps its own copy, later changes to snap are not visible to readers.
func (s *InMemory) Publish(_ context.Context, snap status.Snapshot) error {
	c := snap.Clone()
	s.latest.Store(&c)
	return nil
}

// Latest returns a copy of the latest snapshot
func (s *InMemory) Latest(_ context.Context) (status.Snapshot, bool, error) {
	snap := s.latest.Load()
	if snap == nil {
		return status.Snapshot{}, false, nil
	}
	return snap.Clone(), true, nil
}
