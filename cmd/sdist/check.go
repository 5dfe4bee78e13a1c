package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/distkit/sdist/pkg/check"
	"github.com/distkit/sdist/pkg/watch"
)

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "verify the manifest against the source tree",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "treat warnings as errors",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "JSON output",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "re-run on tree changes",
			},
		},
		Action: checkAction,
	}
}

func checkAction(c *cli.Context) error {
	failed, err := runCheck(c)
	if err != nil {
		return err
	}

	if c.Bool("watch") {
		return watchCheck(c)
	}

	if failed {
		return cli.Exit("check failed", 1)
	}
	return nil
}

func runCheck(c *cli.Context) (bool, error) {
	p, err := loadPipeline(c)
	if err != nil {
		return false, err
	}

	report, err := check.Run(
		p.man, p.res, p.tree, p.meta.Check.Required,
	)
	if err != nil {
		return false, err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return false, err
		}
		return report.Failed(c.Bool("strict")), nil
	}

	printReport(report)
	return report.Failed(c.Bool("strict")), nil
}

func printReport(r *check.Report) {
	for _, p := range r.Problems {
		loc := r.ManifestPath
		if p.Line > 0 {
			loc = fmt.Sprintf("%s:%d", r.ManifestPath, p.Line)
		}
		fmt.Printf("%s: %s: %s\n", loc, p.Severity, p.Message)
	}

	errs := r.Count(check.SeverityError)
	warns := r.Count(check.SeverityWarning)
	switch {
	case errs == 0 && warns == 0:
		fmt.Printf(
			"ok: %d directives cover %d of %d files\n",
			r.DirectiveCount, r.SelectedCount, r.FileCount,
		)
	default:
		fmt.Printf(
			"%d errors, %d warnings (%d of %d files selected)\n",
			errs, warns, r.SelectedCount, r.FileCount,
		)
	}
}

func watchCheck(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	fmt.Println("watching for changes (ctrl-c to stop)")
	return watch.Run(ctx, rootDir(c), watch.Options{}, func() {
		fmt.Println("---")
		if _, err := runCheck(c); err != nil {
			slog.Error("check", "error", err)
		}
	})
}
