package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/distkit/sdist/pkg/archive"
	"github.com/distkit/sdist/pkg/filelist"
	"github.com/distkit/sdist/pkg/lockfile"
)

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "compare the tree or an archive against the lockfile",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "lock",
				Usage: "lockfile path (default: <root>/" +
					lockfile.DefaultName + ")",
			},
			&cli.StringFlag{
				Name:  "archive",
				Usage: "verify archive contents instead of the tree",
			},
		},
		Action: verifyAction,
	}
}

func verifyAction(c *cli.Context) error {
	lockPath := c.String("lock")
	if lockPath == "" {
		lockPath = filepath.Join(rootDir(c), lockfile.DefaultName)
	}
	locked, err := lockfile.Load(lockPath)
	if err != nil {
		return fmt.Errorf("load lock: %w", err)
	}

	if archivePath := c.String("archive"); archivePath != "" {
		return verifyArchive(archivePath, locked)
	}
	return verifyTree(c, locked)
}

func verifyTree(c *cli.Context, locked *lockfile.Lock) error {
	p, err := loadPipeline(c)
	if err != nil {
		return err
	}

	entries, err := filelist.Annotate(
		rootDir(c), p.res.Selected, locked.Digest,
	)
	if err != nil {
		return fmt.Errorf("annotate: %w", err)
	}

	drift := lockfile.Diff(entries, locked)
	if drift.Clean() {
		fmt.Printf(
			"lock is current (%d files)\n", len(locked.Files),
		)
		return nil
	}

	printDrift(drift)
	return cli.Exit(
		fmt.Sprintf(
			"tree drifted from lock: %d added, %d removed, %d changed",
			len(drift.Added), len(drift.Removed), len(drift.Changed),
		),
		1,
	)
}

// verifyArchive checks names and sizes only: archive headers carry
// no content digests, so a digest mismatch shows up as a size or
// membership difference.
func verifyArchive(path string, locked *lockfile.Lock) error {
	entries, err := archive.List(path)
	if err != nil {
		return err
	}

	have := make(map[string]archive.ReadEntry, len(entries))
	for _, e := range entries {
		have[stripStem(e.Path)] = e
	}

	var missing, extra, changed []string
	for _, want := range locked.Files {
		got, ok := have[want.Path]
		if !ok {
			missing = append(missing, want.Path)
			continue
		}
		if got.Size != want.Size {
			changed = append(changed, want.Path)
		}
	}
	want := make(map[string]bool, len(locked.Files))
	for _, e := range locked.Files {
		want[e.Path] = true
	}
	for p := range have {
		if !want[p] {
			extra = append(extra, p)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	sort.Strings(changed)

	if len(missing) == 0 && len(extra) == 0 && len(changed) == 0 {
		fmt.Printf(
			"archive matches lock (%d files)\n", len(entries),
		)
		return nil
	}

	for _, p := range missing {
		fmt.Printf("  - %s (in lock, not in archive)\n", p)
	}
	for _, p := range extra {
		fmt.Printf("  + %s (in archive, not in lock)\n", p)
	}
	for _, p := range changed {
		fmt.Printf("  ~ %s (size differs)\n", p)
	}
	return cli.Exit(
		fmt.Sprintf(
			"archive differs from lock: %d missing, %d extra, %d changed",
			len(missing), len(extra), len(changed),
		),
		1,
	)
}

// stripStem drops the leading name-version directory that pack
// prefixes every member with.
func stripStem(p string) string {
	if _, rest, ok := strings.Cut(p, "/"); ok {
		return rest
	}
	return p
}

func printDrift(d lockfile.Drift) {
	for _, p := range d.Added {
		fmt.Printf("  + %s\n", p)
	}
	for _, p := range d.Removed {
		fmt.Printf("  - %s\n", p)
	}
	for _, p := range d.Changed {
		fmt.Printf("  ~ %s\n", p)
	}
}
