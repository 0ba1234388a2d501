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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caas-team/statusboard/pkg/status"
)

func snapshotWith(overall status.Status, regions int) status.Snapshot {
	rs := make([]status.RegionStatus, regions)
	for i := range rs {
		rs[i] = status.RegionStatus{Region: "r", URL: "https://example.com", Status: overall}
	}
	return status.Snapshot{
		LastUpdated:   time.Now().UTC().Truncate(time.Second),
		Environments:  []status.Environment{{Name: string(overall), Regions: rs}},
		OverallStatus: overall,
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    any
		wantErr bool
	}{
		{name: "default is memory", cfg: Config{}, want: &InMemory{}},
		{name: "memory", cfg: Config{Type: MEMORY}, want: &InMemory{}},
		{name: "redis", cfg: Config{Type: REDIS, Redis: RedisConfig{Address: "localhost:6379"}}, want: &Redis{}},
		{name: "unknown", cfg: Config{Type: "etcd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownType)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "empty", cfg: Config{}},
		{name: "memory", cfg: Config{Type: MEMORY}},
		{name: "redis", cfg: Config{Type: REDIS, Redis: RedisConfig{Address: "redis:6379", TTL: time.Minute}}},
		{name: "redis without address", cfg: Config{Type: REDIS}, wantErr: true},
		{name: "redis with negative ttl", cfg: Config{Type: REDIS, Redis: RedisConfig{Address: "redis:6379", TTL: -time.Second}}, wantErr: true},
		{name: "unknown type", cfg: Config{Type: "s3"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInMemory_PublishLatest(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	_, ok, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "nothing published yet")

	first := snapshotWith(status.Operational, 1)
	require.NoError(t, s.Publish(ctx, first))
	got, ok, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, got)

	second := snapshotWith(status.Outage, 2)
	require.NoError(t, s.Publish(ctx, second))
	got, _, _ = s.Latest(ctx)
	assert.Equal(t, second, got)
}

func TestInMemory_PublishedSnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	published := snapshotWith(status.Degraded, 2)
	want := published.Clone()
	require.NoError(t, s.Publish(ctx, published))

	// neither the publisher nor a reader can change what the next reader sees
	published.Environments[0].Regions[0].Status = status.Outage
	got, _, err := s.Latest(ctx)
	require.NoError(t, err)
	got.Environments[0].Regions[1].Status = status.Outage
	got.Environments[0].Name = "Changed"

	again, _, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, again)
}

func TestInMemory_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	a := snapshotWith(status.Operational, 3)
	b := snapshotWith(status.Outage, 5)
	require.NoError(t, s.Publish(ctx, a))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			next := a
			if i%2 == 0 {
				next = b
			}
			_ = s.Publish(ctx, next)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				got, ok, err := s.Latest(ctx)
				if !assert.NoError(t, err) || !assert.True(t, ok) {
					return
				}
				regions := got.Environments[0].Regions
				switch got.OverallStatus {
				case status.Operational:
					assert.Len(t, regions, 3)
				case status.Outage:
					assert.Len(t, regions, 5)
				default:
					t.Errorf("unexpected overall status %q", got.OverallStatus)
				}
				for _, rs := range regions {
					assert.Equal(t, got.OverallStatus, rs.Status, "snapshot mixes two publications")
				}
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(stop)
	wg.Wait()
}
