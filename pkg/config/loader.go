package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Each config struct type is parsed once per process and the snapshot is
// cached, so the pg, redis and gateway layers all see the same values no
// matter how many components load them.
var (
	cacheMu sync.Mutex
	cache   = map[reflect.Type]any{}

	defaultEnvOnce sync.Once
)

// Load parses environment variables into v using its env struct tags. The
// first call for a type parses and caches; later calls return the cached
// snapshot. A ./.env file, if present, is loaded into the process
// environment before the first parse.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilTarget
	}
	defaultEnvOnce.Do(func() {
		// Missing .env is fine; the environment may be set directly.
		_ = godotenv.Load()
	})

	cacheMu.Lock()
	defer cacheMu.Unlock()

	t := reflect.TypeOf(v).Elem()
	if cached, ok := cache[t]; ok {
		*v = cached.(T)
		return nil
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParseFailed, err)
	}
	cache[t] = *v
	return nil
}

// MustLoad is Load for configs the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// ForceReloadConfig re-parses the environment for v's type and replaces
// the cached snapshot. For tests that mutate the environment mid-process.
func ForceReloadConfig[T any](v *T) error {
	if v == nil {
		return ErrNilTarget
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParseFailed, err)
	}
	cache[reflect.TypeOf(v).Elem()] = *v
	return nil
}

// ResetCache drops every cached snapshot.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	clear(cache)
}

// LoadEnv loads env files into the process environment. Later files win
// over earlier ones and over variables already set. With no arguments it
// loads ./.env and fails if the file is missing.
func LoadEnv(paths ...string) error {
	if err := godotenv.Overload(paths...); err != nil {
		return errors.Join(ErrEnvFileFailed, err)
	}
	return nil
}

// MustLoadEnv is LoadEnv that panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
