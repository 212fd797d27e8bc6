package orchestrator_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-adminsettings/pkg/orchestrator"
	"github.com/goliatone/go-adminsettings/pkg/renderers/vanilla"
	"github.com/goliatone/go-adminsettings/pkg/testsupport"
)

func TestSamplePageRendersEveryControl(t *testing.T) {
	ctx := context.Background()
	orch := orchestrator.New(
		orchestrator.WithRegistry(testsupport.SampleRegistry(t)),
		orchestrator.WithStore(testsupport.SeededStore(t)),
	)

	out, err := orch.RenderPage(ctx, orchestrator.Request{Page: testsupport.SamplePage, Updated: true})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	html := string(out)
	for _, sample := range testsupport.SampleFields() {
		control, err := vanilla.RenderField(sample.Field, sample.Value)
		if err != nil {
			t.Fatalf("render %s: %v", sample.Field.Name, err)
		}
		if !strings.Contains(html, control) {
			t.Fatalf("page is missing control for %s:\n%s", sample.Field.Name, control)
		}
	}
	if !strings.Contains(html, "Settings saved.") {
		t.Fatalf("expected updated notice in page")
	}
}

func TestSamplePageSubmitSavesBoundFieldsInOrder(t *testing.T) {
	ctx := context.Background()
	backend := testsupport.SeededStore(t)
	orch := orchestrator.New(
		orchestrator.WithRegistry(testsupport.SampleRegistry(t)),
		orchestrator.WithStore(backend),
	)

	values := url.Values{
		"option_page": {testsupport.SamplePage},
		"menu_data":   {"Soup $6"},
		"api_key":     {"secret"},
		"price":       {"5"},
	}
	result, err := orch.Submit(ctx, testsupport.SamplePage, values)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := []string{"menu_data", "enabled", "api_key", "price", "tags"}
	if diff := cmp.Diff(want, result.Saved); diff != "" {
		t.Fatalf("saved mismatch (-want +got):\n%s", diff)
	}
	if got, _, _ := backend.GetOption(ctx, "menu_data"); got != "Soup $6" {
		t.Fatalf("menu_data = %v", got)
	}
	if got, _, _ := backend.GetOption(ctx, "enabled"); got != "" {
		t.Fatalf("unchecked checkbox should clear the option, got %v", got)
	}
}
