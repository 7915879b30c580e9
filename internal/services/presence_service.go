// internal/services/presence_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	presenceOnlineKey   = "presence:online"
	presenceLastSeenKey = "presence:last_seen"
)

// PresenceService tracks which users the chat server reported online. It
// uses a Redis set when a client is configured so every gateway instance
// sees the same state, and an in-process map otherwise.
type PresenceService struct {
	rdb *redis.Client
	now func() time.Time

	mu       sync.RWMutex
	online   map[string]struct{}
	lastSeen map[string]time.Time
}

type PresenceSnapshot struct {
	Online   []string             `json:"online"`
	LastSeen map[string]time.Time `json:"lastSeen,omitempty"`
}

func NewPresenceService(rdb *redis.Client) *PresenceService {
	return &PresenceService{
		rdb:      rdb,
		now:      time.Now,
		online:   make(map[string]struct{}),
		lastSeen: make(map[string]time.Time),
	}
}

func (s *PresenceService) SetOnline(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	if s.rdb != nil {
		if err := s.rdb.SAdd(ctx, presenceOnlineKey, userID).Err(); err != nil {
			return fmt.Errorf("failed to mark %s online: %w", userID, err)
		}
		return nil
	}

	s.mu.Lock()
	s.online[userID] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *PresenceService) SetOffline(ctx context.Context, userID string, lastSeen *time.Time) error {
	if userID == "" {
		return nil
	}
	seen := s.now()
	if lastSeen != nil {
		seen = *lastSeen
	}

	if s.rdb != nil {
		_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SRem(ctx, presenceOnlineKey, userID)
			pipe.HSet(ctx, presenceLastSeenKey, userID, seen.Unix())
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to mark %s offline: %w", userID, err)
		}
		return nil
	}

	s.mu.Lock()
	delete(s.online, userID)
	s.lastSeen[userID] = seen
	s.mu.Unlock()
	return nil
}

// Replace resets the online set to exactly userIDs, as reported by an
// online_users snapshot.
func (s *PresenceService) Replace(ctx context.Context, userIDs []string) error {
	if s.rdb != nil {
		_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, presenceOnlineKey)
			if len(userIDs) > 0 {
				members := make([]interface{}, len(userIDs))
				for i, id := range userIDs {
					members[i] = id
				}
				pipe.SAdd(ctx, presenceOnlineKey, members...)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to replace online set: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	s.online = make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id != "" {
			s.online[id] = struct{}{}
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *PresenceService) IsOnline(ctx context.Context, userID string) (bool, error) {
	if s.rdb != nil {
		online, err := s.rdb.SIsMember(ctx, presenceOnlineKey, userID).Result()
		if err != nil {
			return false, fmt.Errorf("failed to read presence of %s: %w", userID, err)
		}
		return online, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, online := s.online[userID]
	return online, nil
}

// Snapshot returns the online users, and the last-seen time of the
// requested ids that are offline.
func (s *PresenceService) Snapshot(ctx context.Context, userIDs ...string) (*PresenceSnapshot, error) {
	if s.rdb != nil {
		return s.redisSnapshot(ctx, userIDs)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := &PresenceSnapshot{Online: make([]string, 0, len(s.online))}
	for id := range s.online {
		snapshot.Online = append(snapshot.Online, id)
	}
	sort.Strings(snapshot.Online)

	for _, id := range userIDs {
		if seen, ok := s.lastSeen[id]; ok {
			if _, online := s.online[id]; !online {
				if snapshot.LastSeen == nil {
					snapshot.LastSeen = make(map[string]time.Time)
				}
				snapshot.LastSeen[id] = seen
			}
		}
	}
	return snapshot, nil
}

func (s *PresenceService) redisSnapshot(ctx context.Context, userIDs []string) (*PresenceSnapshot, error) {
	members, err := s.rdb.SMembers(ctx, presenceOnlineKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read online set: %w", err)
	}
	sort.Strings(members)
	snapshot := &PresenceSnapshot{Online: members}

	if len(userIDs) == 0 {
		return snapshot, nil
	}

	online := make(map[string]bool, len(members))
	for _, id := range members {
		online[id] = true
	}
	values, err := s.rdb.HMGet(ctx, presenceLastSeenKey, userIDs...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read last seen: %w", err)
	}
	for i, value := range values {
		raw, ok := value.(string)
		if !ok || online[userIDs[i]] {
			continue
		}
		unix, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if snapshot.LastSeen == nil {
			snapshot.LastSeen = make(map[string]time.Time)
		}
		snapshot.LastSeen[userIDs[i]] = time.Unix(unix, 0).UTC()
	}
	return snapshot, nil
}
