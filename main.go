package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"wrapchat/backend"
	"wrapchat/config"
	"wrapchat/model"
	"wrapchat/storage"
	"wrapchat/ui"
)

const Version = "v0.1.0"

func main() {
	// Validate environment variables first
	if config.HasAnyEnvVar() && !config.HasAllEnvVars() {
		missingVar := config.GetMissingEnvVar()
		errorMsg := fmt.Sprintf("Missing environment variable: %s\n\n"+
			"When using environment variables, all must be set:\n"+
			"  • WRAPCHAT_BACKEND_URL\n"+
			"  • WRAPCHAT_DATA_DIR\n\n"+
			"Set the missing variable(s) before launching wrapchat.",
			missingVar)

		errorModal := ui.NewErrorModal("Configuration Error", errorMsg)
		p := tea.NewProgram(
			errorModal,
			tea.WithAltScreen(),
		)

		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	sessionStorage, err := storage.NewSessionStorage(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize session storage: %v\n", err)
		os.Exit(1)
	}

	// Encrypt credential drafts at rest when an SSH key is configured
	var encMgr *config.EncryptionManager
	if cfg.Security.Method == config.SecuritySSHKey {
		encMgr = config.NewEncryptionManager(cfg.Security.Method, cfg.Security.SSHKeyPath)
		if err := encMgr.Initialize(); err != nil {
			fmt.Printf("Failed to initialize encryption: %v\n", err)
			os.Exit(1)
		}
	}

	pendingStore, err := storage.NewPendingToolStore(cfg.DataDir(), encMgr)
	if err != nil {
		fmt.Printf("Failed to initialize pending tool store: %v\n", err)
		os.Exit(1)
	}
	defer pendingStore.Close()

	client, err := backend.NewClient(cfg.BackendURL, "")
	if err != nil {
		fmt.Printf("Failed to create backend client: %v\n", err)
		os.Exit(1)
	}
	if token := os.Getenv("WRAPCHAT_AUTH_TOKEN"); token != "" {
		client.SetAuthToken(token)
	}

	// Restore the last open session if there was one
	var lastSession *storage.Session
	if lastSessionID, err := sessionStorage.LoadCurrentSessionID(); err == nil {
		lastSession, _ = sessionStorage.Load(lastSessionID)
	}

	dataModel := model.NewModel(cfg, client, sessionStorage, pendingStore, lastSession, Version)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	// Sibling panels stay in sync: every committed pending-tools write is
	// broadcast back into the running program.
	pendingStore.Subscribe(func(sessionID string) {
		go p.Send(model.PendingToolsChangedMsg{SessionID: sessionID})
	})

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running wrapchat: %v\n", err)
		os.Exit(1)
	}
}
