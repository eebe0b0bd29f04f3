package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type BackendConfig struct {
	BaseURL         string `toml:"base_url"`
	DefaultEndpoint string `toml:"default_endpoint"`
}

type UserConfig struct {
	Backend        BackendConfig         `toml:"backend"`
	Security       SecurityConfig        `toml:"security"`
	ChatWindows    map[string]ChatWindow `toml:"chat_windows,omitempty"`
	DefaultWindow  ChatWindow            `toml:"default_window"`
	MCPToolSources []string              `toml:"mcp_tool_sources,omitempty"`
}

type SecurityConfig struct {
	Method     string `toml:"method"` // "plaintext" or "ssh_key"
	SSHKeyPath string `toml:"ssh_key_path,omitempty"`
}

// Config is the merged runtime configuration handed to the rest of the app.
type Config struct {
	DataDirectory   string
	BackendURL      string
	DefaultEndpoint string
	Security        SecurityConfig
	DefaultWindow   ChatWindow
	ChatWindows     map[string]ChatWindow
	MCPToolSources  []string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// WindowFor returns the chat window policy for an endpoint, falling back to
// the default policy when no per-endpoint override exists.
func (c *Config) WindowFor(endpointID string) ChatWindow {
	if cw, ok := c.ChatWindows[endpointID]; ok {
		return cw.Normalized()
	}
	return c.DefaultWindow.Normalized()
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("WRAPCHAT_BACKEND_URL"); url != "" {
		c.BackendURL = url
	}
	if endpoint := os.Getenv("WRAPCHAT_ENDPOINT"); endpoint != "" {
		c.DefaultEndpoint = endpoint
	}
	if dataDir := os.Getenv("WRAPCHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("WRAPCHAT_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// Create debug log with secure permissions (0600 - may contain request payloads)
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== wrapchat debug log started ===")
}

// Load reads system + user config, applies env overrides and returns the
// merged runtime configuration.
func Load() (*Config, error) {
	sysCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	dataDir := ExpandPath(sysCfg.DataDirectory)
	if err := EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	cfg := &Config{
		DataDirectory:   sysCfg.DataDirectory,
		BackendURL:      userCfg.Backend.BaseURL,
		DefaultEndpoint: userCfg.Backend.DefaultEndpoint,
		Security:        userCfg.Security,
		DefaultWindow:   userCfg.DefaultWindow.Normalized(),
		ChatWindows:     userCfg.ChatWindows,
		MCPToolSources:  userCfg.MCPToolSources,
	}
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Environment variable helpers used by main to decide whether a full
// env-based (config-file-free) launch was requested.

var requiredEnvVars = []string{
	"WRAPCHAT_BACKEND_URL",
	"WRAPCHAT_DATA_DIR",
}

func HasAnyEnvVar() bool {
	for _, name := range requiredEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

func HasAllEnvVars() bool {
	for _, name := range requiredEnvVars {
		if os.Getenv(name) == "" {
			return false
		}
	}
	return true
}

func GetMissingEnvVar() string {
	for _, name := range requiredEnvVars {
		if os.Getenv(name) == "" {
			return name
		}
	}
	return ""
}
