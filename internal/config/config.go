// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// MinSessionSecretLength is the minimum required length for the session
// secret. 32 bytes keeps the session cookies cryptographically sound.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"BLOG_DB_PATH" envDefault:"./data/myblog.db"`
	SessionSecret string `env:"BLOG_SESSION_SECRET,required"`
	ServerHost    string `env:"BLOG_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"BLOG_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"BLOG_ENV" envDefault:"development"`
	LogLevel      string `env:"BLOG_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"BLOG_UPLOADS_DIR" envDefault:"./uploads"`

	// Pagination sizes for the public site and the admin area.
	PostsPerPage         int `env:"BLOG_POSTS_PER_PAGE" envDefault:"7"`
	AdminPostsPerPage    int `env:"BLOG_ADMIN_POSTS_PER_PAGE" envDefault:"15"`
	CommentsPerPage      int `env:"BLOG_COMMENTS_PER_PAGE" envDefault:"5"`
	AdminCommentsPerPage int `env:"BLOG_ADMIN_COMMENTS_PER_PAGE" envDefault:"15"`

	// Upload restrictions for the rich-text editor image flow.
	AllowedImageExts []string `env:"BLOG_ALLOWED_IMAGE_EXTS" envDefault:"jpg,jpeg,png,gif"`

	// Seeding configuration
	DoSeedDemo bool `env:"BLOG_SEED_DEMO" envDefault:"false"` // Fill an empty database with demo content
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// ExtensionAllowed reports whether a file extension (without the dot,
// any case) is on the upload allow-list.
func (c Config) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range c.AllowedImageExts {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("BLOG_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	if cfg.PostsPerPage < 1 || cfg.AdminPostsPerPage < 1 ||
		cfg.CommentsPerPage < 1 || cfg.AdminCommentsPerPage < 1 {
		return nil, fmt.Errorf("page sizes must be positive")
	}

	return cfg, nil
}
