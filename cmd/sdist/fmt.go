package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/renameio/v2"
	"github.com/urfave/cli/v2"

	"github.com/distkit/sdist/pkg/manifest"
)

func fmtCmd() *cli.Command {
	return &cli.Command{
		Name:  "fmt",
		Usage: "canonicalize manifest formatting",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "write",
				Usage: "rewrite the manifest in place",
			},
		},
		Action: fmtAction,
	}
}

func fmtAction(c *cli.Context) error {
	path := manifestPath(c)
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, err := manifest.Canonical(src, path)
	if err != nil {
		return err
	}

	if !c.Bool("write") {
		fmt.Print(string(out))
		return nil
	}

	if bytes.Equal(src, out) {
		fmt.Printf("%s already canonical\n", path)
		return nil
	}
	if err := renameio.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	fmt.Printf("rewrote %s\n", path)
	return nil
}
