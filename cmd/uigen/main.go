// Command uigen generates UI components and pages from a description.
//
//	uigen component [-stream] [-validate] [-type button] [-x 10 -y 20] "a blue submit button"
//	uigen page [-stream] [-validate] [-name Home] [-layout centered] "a landing page for a bakery"
//
// Common flags: -config file.toml, -provider name, -model name. The provider
// configuration is read from UIGEN_* variables, .env and the config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/leofalp/uigen/core/generator"
	"github.com/leofalp/uigen/core/prompt"
	"github.com/leofalp/uigen/core/schema"
	"github.com/leofalp/uigen/internal/config"
	"github.com/leofalp/uigen/internal/utils"
	"github.com/leofalp/uigen/providers/factory"
)

const usage = `usage: uigen <component|page> [flags] "description"

Run "uigen <command> -h" for the flags of a command.
Providers: %s
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "uigen: %v\n", err)
		}
		os.Exit(1)
	}
}

// commonFlags are shared by every command.
type commonFlags struct {
	configFile string
	provider   string
	model      string
	stream     bool
	validate   bool
}

func (common *commonFlags) register(flags *flag.FlagSet) {
	flags.StringVar(&common.configFile, "config", "", "TOML configuration file")
	flags.StringVar(&common.provider, "provider", "", "provider override")
	flags.StringVar(&common.model, "model", "", "model override")
	flags.BoolVar(&common.stream, "stream", false, "print partial results while generating")
	flags.BoolVar(&common.validate, "validate", false, "validate the result")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errUsage
	}

	switch args[0] {
	case "component":
		return runComponent(ctx, args[1:], stdout, stderr)
	case "page":
		return runPage(ctx, args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func printUsage(writer io.Writer) {
	names := make([]string, 0, len(factory.SupportedProviders()))
	for _, provider := range factory.SupportedProviders() {
		names = append(names, string(provider))
	}
	fmt.Fprintf(writer, usage, strings.Join(names, ", "))
}

func runComponent(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("component", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var common commonFlags
	common.register(flags)
	componentType := flags.String("type", "", "component type, inferred from the description when empty")
	parentID := flags.String("parent", "", "parent component id")
	x := flags.Float64("x", 0, "horizontal position")
	y := flags.Float64("y", 0, "vertical position")

	description, err := parseArgs(flags, args)
	if err != nil {
		return err
	}

	gen, err := newGenerator(common, stderr)
	if err != nil {
		return err
	}

	opts := prompt.ComponentOptions{
		Description: description,
		Type:        *componentType,
		ParentID:    *parentID,
	}
	if isSet(flags, "x") || isSet(flags, "y") {
		opts.Position = &schema.Position{X: *x, Y: *y}
	}

	if common.stream {
		var final generator.ComponentUpdate
		for update := range gen.StreamComponent(ctx, opts) {
			final = update
			if update.Partial {
				fmt.Fprintf(stderr, "partial: %s\n", utils.JSONToString(update.Value, false))
			}
		}
		fmt.Fprintln(stdout, utils.JSONToString(final.Value, true))
		return final.Err
	}

	result, err := gen.GenerateComponent(ctx, opts, generator.GeneratorOptions{Validate: common.validate})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, utils.JSONToString(result.Result, true))
	return nil
}

func runPage(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("page", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var common commonFlags
	common.register(flags)
	name := flags.String("name", "", "page name")
	layout := flags.String("layout", "", "layout: centered, full-width, sidebar or grid")

	description, err := parseArgs(flags, args)
	if err != nil {
		return err
	}

	gen, err := newGenerator(common, stderr)
	if err != nil {
		return err
	}

	opts := prompt.PageOptions{
		Description: description,
		Name:        *name,
		Layout:      prompt.Layout(*layout),
	}

	if common.stream {
		var final generator.PageUpdate
		for update := range gen.StreamPage(ctx, opts) {
			final = update
			if update.Partial {
				fmt.Fprintf(stderr, "partial: %d components\n", len(update.Value.Components))
			}
		}
		fmt.Fprintln(stdout, utils.JSONToString(final.Value, true))
		return final.Err
	}

	result, err := gen.GeneratePage(ctx, opts, generator.GeneratorOptions{Validate: common.validate})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, utils.JSONToString(result.Result, true))
	return nil
}

// parseArgs parses flags and joins the remaining arguments into the
// description.
func parseArgs(flags *flag.FlagSet, args []string) (string, error) {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return "", errUsage
		}
		return "", fmt.Errorf("%w: %w", errUsage, err)
	}

	description := strings.TrimSpace(strings.Join(flags.Args(), " "))
	if description == "" {
		return "", fmt.Errorf("%w: a description is required", errUsage)
	}
	return description, nil
}

func newGenerator(common commonFlags, stderr io.Writer) (*generator.AIGenerator, error) {
	cfg, err := config.Load(common.configFile,
		config.WithProvider(common.provider),
		config.WithModel(common.model),
	)
	if err != nil {
		return nil, err
	}

	provider, err := cfg.ProviderName()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger(stderr)
	logger.Debug("generator configured",
		slog.String("provider", string(provider)),
		slog.String("model", cfg.Model),
	)

	return generator.NewFromProvider(provider, cfg.FactoryConfig(logger), generator.WithLogger(logger))
}

func isSet(flags *flag.FlagSet, name string) bool {
	set := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
