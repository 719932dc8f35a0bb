// Package config loads the module's environment-driven configuration:
// pg.Config, redis.Config and payments.PaddleConfig all parse through it.
//
// Load caches one snapshot per struct type for the process lifetime, so
// every component constructing a pool or client from the same config type
// sees identical values:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// LoadEnv layers env files for local development; later files override
// earlier ones. ForceReloadConfig and ResetCache exist for tests that
// mutate the environment.
package config
