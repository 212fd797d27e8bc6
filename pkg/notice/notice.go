// Package notice maps settings error codes to admin notices and collects the
// notices a single page render should display.
package notice

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Severity controls how a notice banner is styled.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
)

// Code identifies an entry in the settings error table.
type Code string

// CodeSaveFailed is reported when a settings submission could not be stored.
const CodeSaveFailed Code = "1"

// ErrUnknownErrorCode is returned for codes outside the error table.
var ErrUnknownErrorCode = errors.New("notice: unknown error code")

// Descriptor is the fully populated description of a settings error.
type Descriptor struct {
	Code       string
	SettingKey string
	Message    string
	Severity   Severity
}

const exampleSettingKey = "servtake_menu_example_setting"

var table = map[Code]Descriptor{
	CodeSaveFailed: {
		Code:       exampleSettingKey,
		SettingKey: exampleSettingKey,
		Message:    "There was an error adding this setting. Please try again.  If this persists, shoot us an email.",
		Severity:   SeverityError,
	},
}

// Describe returns the descriptor for code. Unknown codes yield
// ErrUnknownErrorCode and a zero Descriptor, never a partially filled one.
func Describe(code string) (Descriptor, error) {
	descriptor, ok := table[Code(strings.TrimSpace(code))]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w %q", ErrUnknownErrorCode, code)
	}
	return descriptor, nil
}

// Codes lists the codes Describe accepts.
func Codes() []Code {
	return []Code{CodeSaveFailed}
}

// Notice is a message queued for display at the top of a settings page.
type Notice struct {
	Setting  string
	Code     string
	Message  string
	Severity Severity
}

// Notices is a request-scoped, ordered notice list. The zero value is ready
// to use.
type Notices struct {
	mu    sync.Mutex
	items []Notice
}

// Add queues a notice. Notices without a message are dropped.
func (n *Notices) Add(notice Notice) {
	if strings.TrimSpace(notice.Message) == "" {
		return
	}
	if notice.Severity == "" {
		notice.Severity = SeverityError
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, notice)
}

// List returns a copy of the queued notices in insertion order.
func (n *Notices) List() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) == 0 {
		return nil
	}
	return append([]Notice(nil), n.items...)
}

// Dispatcher registers described settings errors into a notice list.
type Dispatcher struct {
	notices *Notices
}

// NewDispatcher returns a dispatcher writing into notices.
func NewDispatcher(notices *Notices) *Dispatcher {
	if notices == nil {
		notices = &Notices{}
	}
	return &Dispatcher{notices: notices}
}

// Dispatch describes code and queues the resulting notice. Unknown codes are
// rejected and nothing is queued.
func (d *Dispatcher) Dispatch(code string) (Descriptor, error) {
	descriptor, err := Describe(code)
	if err != nil {
		return Descriptor{}, err
	}
	d.notices.Add(Notice{
		Setting:  descriptor.SettingKey,
		Code:     descriptor.Code,
		Message:  descriptor.Message,
		Severity: descriptor.Severity,
	})
	return descriptor, nil
}

// Notices exposes the list the dispatcher writes into.
func (d *Dispatcher) Notices() *Notices {
	return d.notices
}
