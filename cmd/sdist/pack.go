package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/distkit/sdist/pkg/archive"
	"github.com/distkit/sdist/pkg/filelist"
)

func packCmd() *cli.Command {
	return &cli.Command{
		Name:  "pack",
		Usage: "build the distribution archive",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Usage: "archive path (default: <output_dir>/<name>-<version>.tar.<ext>)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "compression: gzip, zstd, lz4, or none",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "show what would be packed",
			},
		},
		Action: packAction,
	}
}

func packAction(c *cli.Context) error {
	p, err := loadPipeline(c)
	if err != nil {
		return err
	}
	warnEmptyDirectives(p)

	if len(p.res.Selected) == 0 {
		return fmt.Errorf("manifest selects no files, refusing to pack")
	}

	stem, err := p.meta.ArchiveStem()
	if err != nil {
		return err
	}

	format := p.meta.Pack.Format
	if s := c.String("format"); s != "" {
		format, err = archive.ParseFormat(s)
		if err != nil {
			return err
		}
	}

	outPath := c.String("output")
	if outPath == "" {
		outPath = filepath.Join(
			rootDir(c),
			p.meta.Pack.OutputDir,
			stem+format.Extension(),
		)
	}

	if c.Bool("dry-run") {
		return printDryRun(c, p, outPath)
	}

	sum, err := archive.Create(
		rootDir(c), p.res.Selected, outPath,
		archive.Options{Prefix: stem, Format: format},
	)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	fmt.Printf(
		"wrote %s: %d files, %s\n",
		sum.Path, sum.Files, humanBytes(sum.Bytes),
	)
	fmt.Printf("sha256 %s\n", sum.SHA256)
	return nil
}

func printDryRun(c *cli.Context, p *pipeline, outPath string) error {
	entries, err := filelist.Annotate(
		rootDir(c), p.res.Selected, filelist.DigestNone,
	)
	if err != nil {
		return fmt.Errorf("annotate: %w", err)
	}

	var total int64
	for _, e := range entries {
		fmt.Printf("  + %s (%s)\n", e.Path, humanBytes(e.Size))
		total += e.Size
	}
	fmt.Printf(
		"would write %s: %d files, %s uncompressed\n",
		outPath, len(entries), humanBytes(total),
	)
	return nil
}
