package notice_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-adminsettings/pkg/notice"
)

func TestDescribeKnownCode(t *testing.T) {
	got, err := notice.Describe("1")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	want := notice.Descriptor{
		Code:       "servtake_menu_example_setting",
		SettingKey: "servtake_menu_example_setting",
		Message:    "There was an error adding this setting. Please try again.  If this persists, shoot us an email.",
		Severity:   notice.SeverityError,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribeUnknownCodeIsRejected(t *testing.T) {
	for _, code := range []string{"2", "", "error"} {
		got, err := notice.Describe(code)
		if !errors.Is(err, notice.ErrUnknownErrorCode) {
			t.Fatalf("Describe(%q): expected ErrUnknownErrorCode, got %v", code, err)
		}
		if got != (notice.Descriptor{}) {
			t.Fatalf("Describe(%q): expected zero descriptor, got %+v", code, got)
		}
	}
}

func TestEveryCodeIsFullyDescribed(t *testing.T) {
	for _, code := range notice.Codes() {
		got, err := notice.Describe(string(code))
		if err != nil {
			t.Fatalf("Describe(%q): %v", code, err)
		}
		if got.Code == "" || got.SettingKey == "" || got.Message == "" || got.Severity == "" {
			t.Fatalf("Describe(%q) has unset fields: %+v", code, got)
		}
	}
}

func TestDispatcherQueuesOnlyKnownCodes(t *testing.T) {
	notices := &notice.Notices{}
	dispatcher := notice.NewDispatcher(notices)

	if _, err := dispatcher.Dispatch("2"); !errors.Is(err, notice.ErrUnknownErrorCode) {
		t.Fatalf("expected unknown code error, got %v", err)
	}
	if len(notices.List()) != 0 {
		t.Fatalf("unknown code must not queue a notice")
	}

	if _, err := dispatcher.Dispatch("1"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	list := notices.List()
	if len(list) != 1 {
		t.Fatalf("expected one notice, got %d", len(list))
	}
	if list[0].Severity != notice.SeverityError || list[0].Setting != "servtake_menu_example_setting" {
		t.Fatalf("unexpected notice %+v", list[0])
	}
}

func TestNoticesDropEmptyMessagesAndDefaultSeverity(t *testing.T) {
	var notices notice.Notices
	notices.Add(notice.Notice{Message: "  "})
	notices.Add(notice.Notice{Message: "Settings saved.", Severity: notice.SeveritySuccess})
	notices.Add(notice.Notice{Message: "Something broke"})

	want := []notice.Notice{
		{Message: "Settings saved.", Severity: notice.SeveritySuccess},
		{Message: "Something broke", Severity: notice.SeverityError},
	}
	if diff := cmp.Diff(want, notices.List()); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}
}
