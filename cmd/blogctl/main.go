// Package main is blogctl, an offline tool for browsing and checking the blog
// catalog without starting the service.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/blog-service/internal/adapters/catalog"
	"github.com/jsamuelsen/blog-service/internal/adapters/fragments"
	"github.com/jsamuelsen/blog-service/internal/adapters/render"
	"github.com/jsamuelsen/blog-service/internal/app"
	"github.com/jsamuelsen/blog-service/internal/platform/config"
	"github.com/jsamuelsen/blog-service/internal/platform/logging"
)

// Build-time variables, injected via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configDir  string
	profile    string
	catalog    string
	contentDir string
	logLevel   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "blogctl",
		Short: "Browse and check the blog catalog",
		Long: `blogctl reads the same configuration, catalog and entry fragments as the
blog service and answers listing, lookup and navigation queries from the
command line.`,
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configDir, "config-dir", "configs", "directory holding base.yaml and profile files")
	flags.StringVar(&opts.profile, "profile", os.Getenv("APP_ENVIRONMENT"), "configuration profile")
	flags.StringVar(&opts.catalog, "catalog", "", "catalog file, overrides blog.catalog_path")
	flags.StringVar(&opts.contentDir, "content", "", "fragment directory, overrides blog.content_dir")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newNavCommand(opts))
	cmd.AddCommand(newValidateCommand(opts))

	return cmd
}

// loadConfig loads the service configuration and applies flag overrides.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(o.configDir, o.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if o.catalog != "" {
		cfg.Blog.CatalogPath = o.catalog
	}

	if o.contentDir != "" {
		cfg.Blog.ContentDir = o.contentDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// newService wires the blog service the way the server does, minus HTTP and
// telemetry. Logs go to stderr so they never mix with command output.
func (o *options) newService(cmd *cobra.Command) (*app.BlogService, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   o.logLevel,
		Format:  "text",
		Service: "blogctl",
		Version: Version,
	}, cmd.ErrOrStderr())

	cat, err := catalog.LoadFile(cfg.Blog.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	logger.Debug("catalog loaded",
		slog.String("path", cfg.Blog.CatalogPath),
		slog.Int("entries", cat.Len()),
	)

	renderer, err := render.New(render.Config{
		EntryURL:  cfg.Blog.EntryURL,
		TeamURL:   cfg.Blog.TeamURL,
		SiteTitle: cfg.Site.Title,
		Nav:       cfg.Site.NavPages(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	return app.NewBlogService(app.BlogServiceConfig{
		Catalog:         cat,
		Fragments:       fragments.NewFileStore(cfg.Blog.ContentDir, fragments.WithLogger(logger)),
		Renderer:        renderer,
		Logger:          logger,
		IndexPageSize:   cfg.Blog.IndexPageSize,
		FragmentWorkers: cfg.Blog.FragmentWorkers,
		IndexURL:        cfg.Blog.IndexURL,
	}), nil
}
