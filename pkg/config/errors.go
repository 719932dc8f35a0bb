package config

import "errors"

var (
	ErrNilTarget     = errors.New("config.nil_target")
	ErrParseFailed   = errors.New("config.parse_failed")
	ErrEnvFileFailed = errors.New("config.env_file_failed")
)
