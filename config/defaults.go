package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/wrapchat",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8080",
		},
		Security: SecurityConfig{
			Method: SecurityPlainText,
		},
		DefaultWindow: DefaultChatWindow(),
	}
}

func GenerateSystemConfigTemplate() string {
	return `# wrapchat System Configuration
# Location: ~/.config/wrapchat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where sessions, cached tool requests and user config are stored
data_directory = "~/.local/share/wrapchat"
`
}

func GenerateUserConfigTemplate() string {
	return `# wrapchat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[backend]
# Dashboard backend base URL
base_url = "http://localhost:8080"

# Endpoint to open on startup (optional)
default_endpoint = ""

[security]
# How locally cached credential drafts are stored: "plaintext" or "ssh_key"
method = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"

[default_window]
# Conversation window sent with each request: "all" or "last_n"
history_mode = "all"
last_n_count = 10
show_thinking = true
show_web_search = true
auto_scroll = true
auto_hide_search_results = true

# Per-endpoint overrides:
# [chat_windows.my-endpoint]
# history_mode = "last_n"
# last_n_count = 4
`
}
