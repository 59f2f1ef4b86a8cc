package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gatebot/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefix for user hashes
	userKeyPrefix = "gatebot:user:"

	fieldStartedAt = "started_at"
	fieldLastSeen  = "last_seen"
	fieldFlags     = "flags"
)

// UserRepo implements repository.UserRepository on top of Redis hashes.
// Each user is stored under gatebot:user:<id>.
type UserRepo struct {
	client *redis.Client
}

// NewUserRepo creates a Redis-backed user repository
func NewUserRepo(client *redis.Client) *UserRepo {
	return &UserRepo{client: client}
}

// Connect parses a redis:// URL and verifies the server answers
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func userKey(userID int64) string {
	return userKeyPrefix + strconv.FormatInt(userID, 10)
}

// LoadUsers scans every user hash
func (r *UserRepo) LoadUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User

	iter := r.client.Scan(ctx, 0, userKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		userID, err := strconv.ParseInt(strings.TrimPrefix(key, userKeyPrefix), 10, 64)
		if err != nil {
			continue
		}

		fields, err := r.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if len(fields) == 0 {
			// Deleted between SCAN and HGETALL
			continue
		}

		user, err := decodeUser(userID, fields)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		users = append(users, user)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}

	return users, nil
}

// SaveUser writes the user hash. started_at is only set if absent.
func (r *UserRepo) SaveUser(ctx context.Context, user domain.User) error {
	flags, err := json.Marshal(nonNil(user.Flags))
	if err != nil {
		return fmt.Errorf("encode flags: %w", err)
	}

	key := userKey(user.UserID)
	pipe := r.client.TxPipeline()
	pipe.HSetNX(ctx, key, fieldStartedAt, user.StartedAt.UTC().Format(time.RFC3339Nano))
	pipe.HSet(ctx, key,
		fieldLastSeen, user.LastSeen.UTC().Format(time.RFC3339Nano),
		fieldFlags, string(flags),
	)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save user %d: %w", user.UserID, err)
	}
	return nil
}

func decodeUser(userID int64, fields map[string]string) (domain.User, error) {
	user := domain.User{UserID: userID}

	var err error
	if user.StartedAt, err = time.Parse(time.RFC3339Nano, fields[fieldStartedAt]); err != nil {
		return user, fmt.Errorf("started_at: %w", err)
	}
	if user.LastSeen, err = time.Parse(time.RFC3339Nano, fields[fieldLastSeen]); err != nil {
		return user, fmt.Errorf("last_seen: %w", err)
	}

	var flags []string
	if raw := fields[fieldFlags]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &flags); err != nil {
			return user, fmt.Errorf("flags: %w", err)
		}
	}
	if len(flags) > 0 {
		user.Flags = flags
	}

	return user, nil
}

func nonNil(flags []string) []string {
	if flags == nil {
		return []string{}
	}
	return flags
}
