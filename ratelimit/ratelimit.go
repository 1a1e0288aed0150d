// Redis-backed request ratelimits, bucketed per endpoint group.
package ratelimit

import (
	"context"
	"crypto/sha512"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"remindshare/state"
)

type Limit struct {
	Exceeded    bool
	Made        int
	Remaining   int
	TimeToReset time.Duration
}

func (l Limit) Headers() map[string]string {
	return map[string]string{
		"X-Ratelimit-Req-Made":  strconv.Itoa(l.Made),
		"X-Ratelimit-Remaining": strconv.Itoa(l.Remaining),
		"Retry-After":           strconv.FormatFloat(l.TimeToReset.Seconds(), 'g', -1, 64),
	}
}

type Ratelimit struct {
	Expiry      time.Duration
	MaxRequests int
	Bucket      string
}

// Limit counts the request against the caller's bucket. Callers are keyed by
// their identity when a valid token is present, otherwise by a hash of the
// remote IP (hashed for user privacy).
func (rl Ratelimit) Limit(ctx context.Context, r *http.Request) (Limit, error) {
	var id string

	auth := r.Header.Get("Authorization")

	if auth != "" {
		token := strings.Replace(auth, "User ", "", 1)

		err := state.Pool.QueryRow(ctx, "SELECT identity FROM users WHERE api_token = $1", token).Scan(&id)

		if err != nil {
			// Fall back to IP keying on an unknown token; auth rejects it later
			id = ""
		}
	}

	if id == "" {
		remoteIp := strings.Split(strings.ReplaceAll(r.Header.Get("X-Forwarded-For"), " ", ""), ",")

		hasher := sha512.New()
		hasher.Write([]byte(remoteIp[0]))
		id = fmt.Sprintf("%x", hasher.Sum(nil))
	}

	rlKey := "rl:" + id + "-" + rl.Bucket

	made, err := state.Redis.Incr(ctx, rlKey).Result()

	if err != nil {
		return Limit{}, err
	}

	if made == 1 {
		err = state.Redis.Expire(ctx, rlKey, rl.Expiry).Err()

		if err != nil {
			return Limit{}, err
		}
	}

	ttl := state.Redis.TTL(ctx, rlKey).Val()

	limit := Limit{
		Made:        int(made),
		Remaining:   rl.MaxRequests - int(made),
		TimeToReset: ttl,
		Exceeded:    int(made) > rl.MaxRequests,
	}

	if limit.Remaining < 0 {
		limit.Remaining = 0
	}

	return limit, nil
}
