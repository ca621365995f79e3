// Package config handles persistent settings: the tracked username,
// the friend list, the strike window and the display timezone.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dquaid/leetfriends/internal/core"
)

// Config holds the persistent settings.
type Config struct {
	// Username is the account whose activity anchors the views. May be
	// empty until the user sets it.
	Username string `json:"username"`

	// Friends are the tracked usernames, excluding Username itself.
	Friends []string `json:"friends"`

	// MaxStrikes is the longest inactivity window counted before a
	// user is marked as struck out.
	MaxStrikes int `json:"maxStrikes"`

	// Timezone is an IANA zone name, or "auto" for the system zone.
	Timezone string `json:"timezone"`
}

// Default returns a config with the default settings and no users. The
// timezone defaults to a fixed fallback zone, not "auto", so a fresh
// install computes day boundaries the same way on every machine.
func Default() *Config {
	return &Config{
		Friends:    []string{},
		MaxStrikes: core.DefaultMaxStrikes,
		Timezone:   core.DefaultTZ,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(core.DataRoot(), "config.json")
}

// Load reads the config from path. A missing file yields the defaults;
// a corrupt file is an error so a typo in hand-edited settings is not
// silently discarded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Friends == nil {
		cfg.Friends = []string{}
	}
	return cfg, nil
}

// Save writes the config to path atomically.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c.MaxStrikes < core.MinMaxStrikes || c.MaxStrikes > core.MaxMaxStrikes {
		return fmt.Errorf("maxStrikes must be between %d and %d, got %d",
			core.MinMaxStrikes, core.MaxMaxStrikes, c.MaxStrikes)
	}
	if _, err := core.LoadZone(c.Timezone); err != nil {
		return err
	}
	return nil
}

// AllUsers returns the tracked username plus friends, deduplicated and
// sorted. The owner's account is just another tracked user in every
// view.
func (c *Config) AllUsers() []string {
	seen := make(map[string]bool)
	users := make([]string, 0, len(c.Friends)+1)
	if c.Username != "" && !seen[c.Username] {
		seen[c.Username] = true
		users = append(users, c.Username)
	}
	for _, f := range c.Friends {
		if f != "" && !seen[f] {
			seen[f] = true
			users = append(users, f)
		}
	}
	sort.Strings(users)
	return users
}

// AddFriend adds a username to the friend list. Returns false if it was
// already present (case-sensitive, like the upstream usernames).
func (c *Config) AddFriend(username string) bool {
	username = strings.TrimSpace(username)
	if username == "" {
		return false
	}
	for _, f := range c.Friends {
		if f == username {
			return false
		}
	}
	c.Friends = append(c.Friends, username)
	return true
}

// RemoveFriend removes a username from the friend list. Returns false
// if it was not present.
func (c *Config) RemoveFriend(username string) bool {
	for i, f := range c.Friends {
		if f == username {
			c.Friends = append(c.Friends[:i], c.Friends[i+1:]...)
			return true
		}
	}
	return false
}
