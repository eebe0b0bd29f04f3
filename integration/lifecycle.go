package integration

import (
	"fmt"

	"wrapchat/backend"
	"wrapchat/config"
	"wrapchat/tools"
)

// State is the credential form's lifecycle position. Failures during
// testing, authorizing, or saving are not terminal: the controller returns
// to the state the operation started from and surfaces the failure as an
// inline banner.
type State int

const (
	StateClosed State = iota
	StateViewing
	StateEditing
	StateTesting
	StateAuthorizing
	StateSaving
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateTesting:
		return "testing"
	case StateAuthorizing:
		return "authorizing"
	case StateSaving:
		return "saving"
	case StateConnected:
		return "connected"
	}
	return "unknown"
}

// Banner kinds for inline feedback.
const (
	BannerNone    = ""
	BannerInfo    = "info"
	BannerSuccess = "success"
	BannerError   = "error"
)

// Banner is a non-fatal inline notice shown above the form.
type Banner struct {
	Kind string
	Text string
}

// Controller is the per-tool credential lifecycle state machine. It holds no
// network dependencies: Begin* methods validate and transition, the caller
// performs the operation, and Finish* methods fold the result back in.
type Controller struct {
	Entry       tools.Entry
	State       State
	Values      map[string]string
	FieldErrors map[string]string
	Banner      Banner

	// GuideAcked records that the user confirmed reading the OAuth setup
	// guide. Saving an OAuth tool is blocked until then.
	GuideAcked bool

	initial   map[string]string
	connected bool
}

// NewController creates a closed controller.
func NewController() *Controller {
	return &Controller{State: StateClosed}
}

// Open attaches the controller to a tool entry. Already-connected tools open
// read-only; pending tools open straight into editing.
func (c *Controller) Open(entry tools.Entry, connected bool) {
	c.Entry = entry
	c.connected = connected
	c.Values = make(map[string]string)
	c.initial = make(map[string]string)
	c.FieldErrors = make(map[string]string)
	c.Banner = Banner{}
	c.GuideAcked = false

	if connected {
		c.State = StateViewing
	} else {
		c.State = StateEditing
	}

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Integration] Opened %q (connected=%v) -> %s", entry.Key(), connected, c.State)
	}
}

// Close resets the controller.
func (c *Controller) Close() {
	*c = Controller{State: StateClosed}
}

// BeginEdit moves a read-only view into editing without discarding anything
// already typed.
func (c *Controller) BeginEdit() {
	if c.State != StateViewing {
		return
	}
	c.State = StateEditing
	c.snapshotInitial()
}

// CancelEdit restores the values captured when editing began. Connected
// tools fall back to the read-only view; pending tools keep the form open.
func (c *Controller) CancelEdit() {
	if c.State != StateEditing {
		return
	}
	c.Values = make(map[string]string, len(c.initial))
	for k, v := range c.initial {
		c.Values[k] = v
	}
	c.FieldErrors = make(map[string]string)
	c.Banner = Banner{}
	if c.connected {
		c.State = StateViewing
	}
}

// SetValue records a field change and re-validates that field immediately.
func (c *Controller) SetValue(fieldName, value string) {
	if c.State != StateEditing {
		return
	}
	c.Values[fieldName] = value

	for _, field := range c.Entry.CredentialFields() {
		if field.Name != fieldName {
			continue
		}
		if msg := ValidateField(field, value); msg != "" {
			c.FieldErrors[fieldName] = msg
		} else {
			delete(c.FieldErrors, fieldName)
		}
		return
	}
}

// Validate re-runs full-form validation, as on submit.
func (c *Controller) Validate() bool {
	c.FieldErrors = ValidateAll(c.Entry.CredentialFields(), c.Values)
	return len(c.FieldErrors) == 0
}

// CanSubmit reports whether no field currently has an active error.
func (c *Controller) CanSubmit() bool {
	return len(c.FieldErrors) == 0
}

// AcknowledgeGuide records that the user read the OAuth setup guide.
func (c *Controller) AcknowledgeGuide() {
	c.GuideAcked = true
}

// BeginTest transitions into the connectivity test. The probe itself is the
// caller's job; it requires a selected endpoint, which the backend client
// enforces. Testing never mutates persisted state.
func (c *Controller) BeginTest() error {
	if c.State != StateEditing {
		return fmt.Errorf("cannot test from state %s", c.State)
	}
	if !c.Validate() {
		return fmt.Errorf("fix the highlighted fields before testing")
	}
	c.State = StateTesting
	c.Banner = Banner{Kind: BannerInfo, Text: "Testing connection..."}
	return nil
}

// FinishTest folds the probe result back in and returns to editing.
func (c *Controller) FinishTest(result *backend.TestResult, err error) {
	if c.State != StateTesting {
		return
	}
	c.State = StateEditing

	switch {
	case err != nil:
		c.Banner = Banner{Kind: BannerError, Text: err.Error()}
	case result != nil && result.OK:
		text := result.Message
		if text == "" {
			text = "Connection test succeeded"
		}
		c.Banner = Banner{Kind: BannerSuccess, Text: text}
	default:
		text := "Connection test failed"
		if result != nil && result.Message != "" {
			text = result.Message
		}
		c.Banner = Banner{Kind: BannerError, Text: text}
	}
}

// BeginAuthorize transitions into the external OAuth flow. Client id and
// secret must already be typed in.
func (c *Controller) BeginAuthorize() error {
	if c.State != StateEditing {
		return fmt.Errorf("cannot authorize from state %s", c.State)
	}
	if !c.Entry.RequiresOAuth() {
		return fmt.Errorf("%s does not use OAuth", c.Entry.DisplayName())
	}
	if c.Values["client_id"] == "" || c.Values["client_secret"] == "" {
		return fmt.Errorf("enter the client id and client secret before authorizing")
	}
	c.State = StateAuthorizing
	c.Banner = Banner{}
	return nil
}

// FinishAuthorize folds the authorization initiation result back in. Success
// leaves the user an informational notice; failure is an inline banner, not
// a fatal state.
func (c *Controller) FinishAuthorize(result *backend.AuthorizeResult, err error) {
	if c.State != StateAuthorizing {
		return
	}
	c.State = StateEditing

	if err != nil {
		c.Banner = Banner{Kind: BannerError, Text: err.Error()}
		return
	}
	c.Banner = Banner{
		Kind: BannerInfo,
		Text: "Authorization opened in your browser. Complete it there, then come back and press Save.",
	}
}

// BeginSave transitions into saving. OAuth tools require the setup guide to
// be acknowledged first; validation errors block submission.
func (c *Controller) BeginSave() error {
	if c.State != StateEditing {
		return fmt.Errorf("cannot save from state %s", c.State)
	}
	if c.Entry.RequiresOAuth() && !c.GuideAcked {
		return fmt.Errorf("review and acknowledge the setup guide before saving")
	}
	if !c.Validate() {
		return fmt.Errorf("fix the highlighted fields before saving")
	}
	c.State = StateSaving
	c.Banner = Banner{Kind: BannerInfo, Text: "Saving..."}
	return nil
}

// FinishSave folds the save outcome back in: success connects the tool,
// failure returns to editing with the error displayed.
func (c *Controller) FinishSave(err error) {
	if c.State != StateSaving {
		return
	}
	if err != nil {
		c.State = StateEditing
		c.Banner = Banner{Kind: BannerError, Text: err.Error()}
		return
	}
	c.State = StateConnected
	c.connected = true
	c.Banner = Banner{Kind: BannerSuccess, Text: fmt.Sprintf("%s connected", c.Entry.DisplayName())}
}

// SaveRequests builds one backend write per member tool. A provider group
// persists the same credential payload once per member, each under its own
// tool identity.
func (c *Controller) SaveRequests(endpointID string) []backend.SaveIntegrationRequest {
	members := c.Entry.Members()
	requests := make([]backend.SaveIntegrationRequest, 0, len(members))

	for _, member := range members {
		values := make(map[string]string, len(c.Values))
		for k, v := range c.Values {
			values[k] = v
		}
		requests = append(requests, backend.SaveIntegrationRequest{
			EndpointID: endpointID,
			ToolName:   member.Name,
			ToolCode:   member.ToolCode,
			Values:     values,
		})
	}
	return requests
}

func (c *Controller) snapshotInitial() {
	c.initial = make(map[string]string, len(c.Values))
	for k, v := range c.Values {
		c.initial[k] = v
	}
}
