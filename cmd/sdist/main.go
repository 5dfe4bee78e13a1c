package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/distkit/sdist/pkg/distmeta"
	"github.com/distkit/sdist/pkg/filelist"
	"github.com/distkit/sdist/pkg/manifest"
)

const appVersion = "0.1.0"

func main() {
	app := &cli.App{
		Name:  "sdist",
		Usage: "resolve, check, and pack distribution manifests",
		Before: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"))
			return nil
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Value: ".",
				Usage: "project root directory",
			},
			&cli.StringFlag{
				Name:  "manifest",
				Value: "MANIFEST.in",
				Usage: "manifest file, relative to root",
			},
			&cli.StringFlag{
				Name:  "config",
				Value: distmeta.DefaultName,
				Usage: "metadata file, relative to root",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "verbose output",
			},
		},
		Commands: []*cli.Command{
			filesCmd(),
			checkCmd(),
			packCmd(),
			lockCmd(),
			verifyCmd(),
			fmtCmd(),
			doctorCmd(),
			{
				Name:  "version",
				Usage: "print version",
				Action: func(c *cli.Context) error {
					fmt.Println(appVersion)
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}),
	))
}

func rootDir(c *cli.Context) string {
	return c.String("root")
}

func manifestPath(c *cli.Context) string {
	return filepath.Join(rootDir(c), c.String("manifest"))
}

func configPath(c *cli.Context) string {
	return filepath.Join(rootDir(c), c.String("config"))
}

// loadMeta treats a missing config file as zero-value defaults;
// only pack insists on real metadata, through ArchiveStem.
func loadMeta(c *cli.Context) (*distmeta.Meta, error) {
	meta, err := distmeta.Load(configPath(c))
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file, using defaults",
			"path", configPath(c),
		)
		return distmeta.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}

type pipeline struct {
	meta *distmeta.Meta
	man  *manifest.Manifest
	tree []string
	res  *filelist.Result
}

func loadPipeline(c *cli.Context) (*pipeline, error) {
	meta, err := loadMeta(c)
	if err != nil {
		return nil, err
	}

	man, err := manifest.Load(manifestPath(c))
	if err != nil {
		return nil, err
	}

	tree, err := filelist.Walk(rootDir(c), filelist.WalkOptions{
		Exclude: meta.Walk.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", rootDir(c), err)
	}

	res, err := filelist.Resolve(tree, man)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	slog.Debug("resolved",
		"tree", len(tree),
		"directives", len(man.Directives),
		"selected", len(res.Selected),
	)
	return &pipeline{
		meta: meta,
		man:  man,
		tree: tree,
		res:  res,
	}, nil
}

func warnEmptyDirectives(p *pipeline) {
	for _, st := range p.res.Stats {
		if st.Matched == 0 {
			slog.Warn("directive matches no files",
				"line", st.Directive.Line,
				"directive", st.Directive.String(),
			)
		}
	}
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf(
			"%.1f MB", float64(n)/(1<<20),
		)
	case n >= 1<<10:
		return fmt.Sprintf(
			"%.1f KB", float64(n)/(1<<10),
		)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
