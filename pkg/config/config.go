// Package config loads boardroom configuration from an optional JSON file
// with environment variable overrides. The loaded Config value is passed
// explicitly into every component; nothing reads configuration ambiently.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Mattermost MattermostConfig `json:"mattermost"`
	Entity     EntityConfig     `json:"entity,omitzero"`
	Providers  ProvidersConfig  `json:"providers,omitzero"`
	Memory     MemoryConfig     `json:"memory,omitzero"`
	Tools      ToolsConfig      `json:"tools,omitzero"`
	Gateway    GatewayConfig    `json:"gateway,omitzero"`
	Debug      bool             `json:"debug" env:"BOARDROOM_DEBUG"`
}

// MattermostConfig covers both ingress paths: the WebSocket event stream
// and the webhook/slash-command HTTP endpoints.
type MattermostConfig struct {
	ServerURL string `json:"server_url" env:"MATTERMOST_URL"`
	Token     string `json:"token" env:"MATTERMOST_TOKEN"`
	Team      string `json:"team" env:"MATTERMOST_TEAM"`
	BotName   string `json:"bot_name" env:"MATTERMOST_BOT_NAME"`
	// BotID short-circuits the GetMe lookup during connect when set.
	BotID               string `json:"bot_id" env:"MATTERMOST_BOT_ID"`
	ReplyToMentionsOnly bool   `json:"reply_to_mentions_only" env:"MATTERMOST_REPLY_TO_MENTIONS_ONLY"`
	MaxMessageLength    int    `json:"max_message_length" env:"MATTERMOST_MAX_MESSAGE_LENGTH"`
	// WebhookToken authenticates outgoing-webhook and slash-command
	// callbacks. Empty disables validation.
	WebhookToken string `json:"webhook_token" env:"MATTERMOST_WEBHOOK_TOKEN"`
}

// EntityConfig selects the downstream responder. Exactly one mode must be
// active; the dispatch package rejects anything else at construction.
type EntityConfig struct {
	Mode            string `json:"mode" env:"BOARDROOM_ENTITY_MODE"` // "agent" | "team" | "workflow"
	DefaultModel    string `json:"default_model" env:"BOARDROOM_DEFAULT_MODEL"`
	SpecialistModel string `json:"specialist_model" env:"BOARDROOM_SPECIALIST_MODEL"`
}

type ProvidersConfig struct {
	Anthropic ProviderConfig `json:"anthropic,omitzero" envPrefix:"ANTHROPIC_"`
	OpenAI    ProviderConfig `json:"openai,omitzero" envPrefix:"OPENAI_"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key" env:"API_KEY"`
	APIBase string `json:"api_base" env:"API_BASE"`
}

type MemoryConfig struct {
	Enabled    bool   `json:"enabled" env:"MEMORY_ENABLED"`
	BaseURL    string `json:"base_url" env:"MEMORY_BASE_URL"`
	Collection string `json:"collection" env:"MEMORY_COLLECTION"`
}

// ToolsConfig points at the remote MCP tool servers proxied to agents.
type ToolsConfig struct {
	ERPNextCRMURL      string `json:"erpnext_crm_url" env:"ERPNEXT_CRM_MCP_URL"`
	ERPNextProjectsURL string `json:"erpnext_projects_url" env:"ERPNEXT_PROJECTS_MCP_URL"`
	GiteaURL           string `json:"gitea_url" env:"GITEA_MCP_URL"`
}

type GatewayConfig struct {
	Host string `json:"host" env:"BOARDROOM_HOST"`
	Port int    `json:"port" env:"BOARDROOM_PORT"`
}

func DefaultConfig() *Config {
	return &Config{
		Mattermost: MattermostConfig{
			ServerURL:           "http://localhost:8065",
			Team:                "main",
			BotName:             "executive-bot",
			ReplyToMentionsOnly: true,
			MaxMessageLength:    40000,
		},
		Entity: EntityConfig{
			Mode:            "team",
			DefaultModel:    "",
			SpecialistModel: "",
		},
		Memory: MemoryConfig{
			Collection: "boardroom_memories",
		},
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
	}
}

// LoadConfig reads the JSON config at path (missing file is fine, defaults
// apply) and then applies environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Entity.Mode {
	case "agent", "team", "workflow":
	default:
		return fmt.Errorf("entity mode must be one of agent, team, workflow; got %q", c.Entity.Mode)
	}
	if c.Mattermost.MaxMessageLength <= 0 {
		return errors.New("mattermost max_message_length must be positive")
	}
	return nil
}
