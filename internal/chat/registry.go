// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chat persists per-chat keyword subscriptions. Each chat carries
// its own required/optional keywords and translation flag; chats that were
// never configured fall back to the default subscription.
package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// Registry holds chat configurations backed by a YAML file. The file is
// created on the first Set; a missing file means no chats are configured.
type Registry struct {
	path string

	mu      sync.RWMutex
	configs map[string]types.ChatConfig
}

// Load reads the registry at path. Duplicate chat IDs in the file resolve
// last-wins.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path, configs: make(map[string]types.ChatConfig)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading chat configs: %w", err)
	}

	var configs []types.ChatConfig
	if err := yaml.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("parsing chat configs: %w", err)
	}
	for _, cfg := range configs {
		r.configs[cfg.ChatID] = cfg
	}
	return r, nil
}

// Get returns the configuration for chatID, or the default subscription
// when the chat was never configured.
func (r *Registry) Get(chatID string) types.ChatConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cfg, ok := r.configs[chatID]; ok {
		return cfg
	}
	return types.DefaultChatConfig(chatID)
}

// Set stores cfg, replacing any previous configuration for the same chat,
// and writes the registry back to disk.
func (r *Registry) Set(cfg types.ChatConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.ChatID] = cfg
	return r.save()
}

// All returns every stored configuration ordered by chat ID.
func (r *Registry) All() []types.ChatConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted()
}

func (r *Registry) sorted() []types.ChatConfig {
	configs := make([]types.ChatConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].ChatID < configs[j].ChatID })
	return configs
}

func (r *Registry) save() error {
	data, err := yaml.Marshal(r.sorted())
	if err != nil {
		return fmt.Errorf("marshaling chat configs: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("writing chat configs: %w", err)
	}
	return nil
}
