package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/distkit/sdist/pkg/filelist"
)

func filesCmd() *cli.Command {
	return &cli.Command{
		Name:  "files",
		Usage: "print the resolved file set",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "JSON output",
			},
			&cli.BoolFlag{
				Name:  "digest",
				Usage: "include content digests (implies --json)",
			},
		},
		Action: filesAction,
	}
}

func filesAction(c *cli.Context) error {
	p, err := loadPipeline(c)
	if err != nil {
		return err
	}
	warnEmptyDirectives(p)

	if !c.Bool("json") && !c.Bool("digest") {
		for _, f := range p.res.Selected {
			fmt.Println(f)
		}
		return nil
	}

	alg := filelist.DigestNone
	if c.Bool("digest") {
		alg = p.meta.Lock.Digest
	}
	entries, err := filelist.Annotate(
		rootDir(c), p.res.Selected, alg,
	)
	if err != nil {
		return fmt.Errorf("annotate: %w", err)
	}
	if entries == nil {
		entries = []filelist.Entry{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
