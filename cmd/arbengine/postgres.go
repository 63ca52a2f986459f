package main

import (
	"main/internal/ops"
	"main/pkg/conn"
)

func postgresOption(c ops.PostgresConfig) conn.Option {
	return conn.Option{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		SSLMode:  c.SSLMode,
	}
}
