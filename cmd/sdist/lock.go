package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/distkit/sdist/pkg/filelist"
	"github.com/distkit/sdist/pkg/lockfile"
)

func lockCmd() *cli.Command {
	return &cli.Command{
		Name:  "lock",
		Usage: "snapshot the resolved file set",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Usage: "lockfile path (default: <root>/" +
					lockfile.DefaultName + ")",
			},
		},
		Action: lockAction,
	}
}

func lockAction(c *cli.Context) error {
	p, err := loadPipeline(c)
	if err != nil {
		return err
	}
	warnEmptyDirectives(p)

	entries, err := filelist.Annotate(
		rootDir(c), p.res.Selected, p.meta.Lock.Digest,
	)
	if err != nil {
		return fmt.Errorf("annotate: %w", err)
	}

	outPath := c.String("output")
	if outPath == "" {
		outPath = filepath.Join(rootDir(c), lockfile.DefaultName)
	}

	l := lockfile.New(p.meta.Lock.Digest, entries)
	if err := lockfile.Write(outPath, l); err != nil {
		return err
	}

	fmt.Printf(
		"wrote %s: %d files (%s)\n",
		outPath, len(l.Files), p.meta.Lock.Digest,
	)
	return nil
}
