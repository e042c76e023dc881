package redigo

import "time"

// setArgs builds the arguments of SET. Expiry uses EX when ttl is whole
// seconds and PX otherwise, rounding anything below a millisecond up to 1.
func setArgs(key string, value []byte, ttl time.Duration) []any {
	args := []any{key, value}
	if ttl <= 0 {
		return args
	}

	if ttl%time.Second == 0 {
		return append(args, "EX", int64(ttl/time.Second))
	}
	return append(args, "PX", max(int64(ttl/time.Millisecond), 1))
}
