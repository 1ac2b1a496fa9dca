package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/joho/godotenv"

	"github.com/five82/pokedex/internal/app"
	"github.com/five82/pokedex/internal/pokeapi"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "override config path (optional)")
	mode := flag.String("mode", "", "browsing mode: pagination or infinite (optional)")
	limit := flag.Int("limit", 0, "entries per page (optional, defaults to 20)")
	search := flag.String("search", "", "print one Pokémon by name or number and exit")
	find := flag.Bool("find", false, "prompt for a Pokémon name, print it and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, Mode: *mode}
	if *limit > 0 {
		opts.PageSize = *limit
	}

	switch {
	case *search != "":
		return lookup(ctx, opts, *search, false)
	case *find:
		name, err := promptName()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return 0
			}
			fmt.Fprintf(os.Stderr, "pokedex: %v\n", err)
			return 1
		}
		return lookup(ctx, opts, name, true)
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "pokedex: %v\n", err)
		return 1
	}
	return 0
}

// lookup fetches a single entry behind a spinner and prints its card. A
// best-effort lookup reports any failure as no match.
func lookup(ctx context.Context, opts app.Options, name string, bestEffort bool) int {
	rt, err := app.Build(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pokedex: %v\n", err)
		return 1
	}
	defer func() { _ = rt.Close() }()

	var summary *pokeapi.Summary
	var fetchErr error
	err = spinner.New().
		Title("Looking up " + name + "...").
		Context(ctx).
		Action(func() {
			if bestEffort {
				summary = rt.Catalog.Search(ctx, name)
				return
			}
			summary, fetchErr = rt.Catalog.Summary(ctx, name)
		}).
		Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pokedex: spinner error: %v\n", err)
		return 1
	}
	if fetchErr != nil {
		info := pokeapi.Info(fetchErr)
		fmt.Fprintf(os.Stderr, "pokedex: %s\n", info.Message)
		if info.NotFound() {
			return 2
		}
		return 1
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "pokedex: no Pokémon named %q\n", name)
		return 2
	}

	fmt.Println(renderCard(summary))
	return 0
}

func promptName() (string, error) {
	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Find a Pokémon").
				Description("Name or National Dex number").
				Placeholder("pikachu").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}
