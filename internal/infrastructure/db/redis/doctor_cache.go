package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medicare/booking-api/internal/core/domain"
)

const defaultDoctorTTL = 5 * time.Minute

// setIfCurrent stores the entry only while the generation counter still holds
// the version the reader observed before loading from the store.
var setIfCurrent = redis.NewScript(`
local gen = tonumber(redis.call("GET", KEYS[2]) or "0")
if gen ~= tonumber(ARGV[1]) then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// DoctorCache caches public doctor lookups as JSON.
// Key format: doctor:<id>, generation counter doctor:<id>:gen
type DoctorCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDoctorCache creates a DoctorCache. A non-positive ttl falls back to 5m.
func NewDoctorCache(client *redis.Client, ttl time.Duration) *DoctorCache {
	if ttl <= 0 {
		ttl = defaultDoctorTTL
	}
	return &DoctorCache{client: client, ttl: ttl}
}

// Get reports a miss with ok=false and a nil error.
func (c *DoctorCache) Get(ctx context.Context, id string) (*domain.Doctor, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("doctor cache get: %w", err)
	}

	var entry cachedDoctor
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("doctor cache decode: %w", err)
	}
	d := domain.Doctor(entry)
	return &d, true, nil
}

// Version returns the current invalidation generation for id, 0 if none.
func (c *DoctorCache) Version(ctx context.Context, id string) (int64, error) {
	v, err := c.client.Get(ctx, c.genKey(id)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("doctor cache version: %w", err)
	}
	return v, nil
}

// Set caches d unless the doctor was invalidated after version was read.
// A skipped write is not an error.
func (c *DoctorCache) Set(ctx context.Context, d *domain.Doctor, version int64) error {
	raw, err := json.Marshal(cachedDoctor(*d))
	if err != nil {
		return fmt.Errorf("doctor cache encode: %w", err)
	}
	keys := []string{c.key(d.ID), c.genKey(d.ID)}
	if err := setIfCurrent.Run(ctx, c.client, keys, version, raw, c.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("doctor cache set: %w", err)
	}
	return nil
}

// Invalidate drops the entry and bumps the generation in one transaction.
func (c *DoctorCache) Invalidate(ctx context.Context, id string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey(id))
		pipe.Del(ctx, c.key(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("doctor cache invalidate: %w", err)
	}
	return nil
}

func (c *DoctorCache) key(id string) string {
	return "doctor:" + id
}

func (c *DoctorCache) genKey(id string) string {
	return "doctor:" + id + ":gen"
}

// cachedDoctor mirrors domain.Doctor but keeps the deleted flag, which the
// public JSON form hides.
type cachedDoctor struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Email          string                `json:"email,omitempty"`
	Phone          string                `json:"phone,omitempty"`
	Photo          string                `json:"photo,omitempty"`
	Specialization string                `json:"specialization,omitempty"`
	Bio            string                `json:"bio,omitempty"`
	About          string                `json:"about,omitempty"`
	TicketPrice    float64               `json:"ticket_price"`
	TimeSlots      []domain.TimeSlot     `json:"time_slots,omitempty"`
	Approval       domain.ApprovalStatus `json:"approval"`
	FullyBooked    bool                  `json:"fully_booked"`
	Deleted        bool                  `json:"deleted"`
	AverageRating  float64               `json:"average_rating"`
	TotalRating    int                   `json:"total_rating"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}
