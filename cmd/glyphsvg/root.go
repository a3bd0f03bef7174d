package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gogpu/glyphsvg"
	"github.com/gogpu/glyphsvg/catalog"
	"github.com/gogpu/glyphsvg/config"
	"github.com/gogpu/glyphsvg/fontload"
	"github.com/gogpu/glyphsvg/typeset"
)

var errNoAPIKey = errors.New("no Google Fonts API key: set " + config.EnvAPIKey + " or api_key in the config file")

// env is shared by the subcommands.
type env struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:          "glyphsvg",
		Short:        "Render text in Google Fonts as SVG outlines",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return e.load()
		},
	}
	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "config file (default $"+config.EnvConfig+")")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newServeCmd(e), newRenderCmd(e), newFamiliesCmd(e))
	return root
}

func (e *env) load() error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.logLevel != "" {
		cfg.LogLevel = e.logLevel
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	glyphsvg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	e.cfg = cfg
	return nil
}

func (e *env) httpClient() *http.Client {
	return &http.Client{Timeout: time.Duration(e.cfg.HTTPTimeout)}
}

func (e *env) shaper() (*typeset.Shaper, error) {
	tag, err := e.cfg.LanguageTag()
	if err != nil {
		return nil, err
	}
	return typeset.NewShaper(typeset.WithLanguage(tag)), nil
}

func (e *env) fontLoader() *fontload.Loader {
	return fontload.New(
		fontload.WithHTTPClient(e.httpClient()),
		fontload.WithCacheSize(e.cfg.FontCache),
		fontload.WithMaxBytes(e.cfg.MaxFontBytes),
	)
}

func (e *env) catalogClient() (*catalog.Client, error) {
	key, err := e.apiKey()
	if err != nil {
		return nil, err
	}
	return catalog.NewClient(key,
		catalog.WithBaseURL(e.cfg.CatalogURL),
		catalog.WithSort(e.cfg.Sort),
		catalog.WithHTTPClient(e.httpClient()),
	), nil
}

func (e *env) fetchCatalog(ctx context.Context) (*catalog.Catalog, error) {
	client, err := e.catalogClient()
	if err != nil {
		return nil, err
	}
	return client.Fetch(ctx)
}

// apiKey returns the configured key, prompting for one on a terminal.
func (e *env) apiKey() (string, error) {
	if e.cfg.APIKey != "" {
		return e.cfg.APIKey, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoAPIKey
	}

	fmt.Fprint(os.Stderr, "Google Fonts API key: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read API key: %w", err)
	}
	key := strings.TrimSpace(string(b))
	if key == "" {
		return "", errNoAPIKey
	}
	e.cfg.APIKey = key
	return key, nil
}
