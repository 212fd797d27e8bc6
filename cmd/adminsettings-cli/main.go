package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-adminsettings/internal/bootstrap"
	"github.com/goliatone/go-adminsettings/internal/config"
	"github.com/goliatone/go-adminsettings/pkg/notice"
	"github.com/goliatone/go-adminsettings/pkg/orchestrator"
	"github.com/goliatone/go-adminsettings/pkg/renderers/tui"
)

const usage = `usage: adminsettings-cli [flags] <command>

commands:
  render   write the settings page HTML
  edit     edit the settings page in the terminal and save it
  describe print the admin notice for an error code (-code)
`

var errUsage = errors.New("usage")

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) (err error) {
	flags := flag.NewFlagSet("adminsettings-cli", flag.ContinueOnError)
	configPath := flags.String("config", "", "TOML configuration file")
	envFile := flags.String("env", ".env", "dotenv file loaded before reading the environment")
	page := flags.String("page", "servtake_menu_general_settings", "settings page key")
	output := flags.String("output", "", "output file for render (stdout if empty)")
	code := flags.String("code", "1", "error code for describe")
	flags.Usage = func() { fmt.Fprint(flags.Output(), usage); flags.PrintDefaults() }
	if err := flags.Parse(args); err != nil {
		return err
	}

	command := strings.TrimSpace(flags.Arg(0))
	if command == "describe" {
		descriptor, err := notice.Describe(*code)
		if err != nil {
			return fmt.Errorf("describe: %w", err)
		}
		fmt.Fprintf(stdout, "[%s] %s (setting %s)\n", descriptor.Severity, descriptor.Message, descriptor.SettingKey)
		return nil
	}
	if command != "render" && command != "edit" {
		flags.Usage()
		return errUsage
	}

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Keep terminal output readable unless asked otherwise.
	if os.Getenv(config.EnvPrefix+"LOG_LEVEL") == "" {
		cfg.Logging.Level = "error"
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close: %w", closeErr))
		}
	}()

	if command == "render" {
		return render(ctx, app, *page, *output, stdout)
	}
	return edit(ctx, app, *page, stdout)
}

func render(ctx context.Context, app *bootstrap.App, page, output string, stdout io.Writer) error {
	out, err := app.Orchestrator.RenderPage(ctx, orchestrator.Request{Page: page})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	if output == "" {
		fmt.Fprintln(stdout, string(out))
		return nil
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(stdout, "Page written to %s\n", output)
	return nil
}

func edit(ctx context.Context, app *bootstrap.App, page string, stdout io.Writer) error {
	values, err := tui.New().Edit(ctx, app.Orchestrator, page)
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(stdout, "aborted")
		return nil
	}
	if err != nil {
		return fmt.Errorf("edit page: %w", err)
	}
	result, err := app.Orchestrator.Submit(ctx, page, values)
	if err != nil {
		descriptor, _ := notice.Describe(string(notice.CodeSaveFailed))
		return fmt.Errorf("%s: %w", descriptor.Message, err)
	}
	fmt.Fprintf(stdout, "Settings saved (%s).\n", strings.Join(result.Saved, ", "))
	return nil
}
