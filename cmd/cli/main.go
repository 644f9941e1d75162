// One-shot digest runner: generate or print a date's report.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"diderot/internal/application"
	"diderot/internal/model"
	"diderot/internal/report"
)

func main() {
	var (
		date  = flag.String("date", time.Now().UTC().Format(model.DateLayout), "Report date (YYYY-MM-DD)")
		force = flag.Bool("force", false, "Regenerate even when a fresh report is cached")
		show  = flag.Bool("show", false, "Print the cached report only, never generate")
	)
	flag.Parse()

	ctx := context.Background()

	app, err := application.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create application: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	var rep *model.DailyReport
	if *show {
		rep, err = app.Service.Cached(ctx, *date)
		if errors.Is(err, report.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "No report stored for %s\n", *date)
			os.Exit(1)
		}
	} else {
		rep, err = app.Service.DailyDigest(ctx, *date, *force)
	}

	var cacheErr *report.CacheWriteError
	if err != nil && !errors.As(err, &cacheErr) {
		fmt.Fprintf(os.Stderr, "Failed to produce report: %v\n", err)
		os.Exit(1)
	}
	if cacheErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", cacheErr)
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode report: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
