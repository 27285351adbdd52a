// Package lock provides an optional cross-process lock around sync runs.
//
// When lock.redis_addr is configured, Obtain takes a redislock lock on a single key and
// fails fast with ErrNotObtained if another run holds it. Without Redis the Noop locker is
// used and overlapping runs are left to scheduling discipline.
package lock
