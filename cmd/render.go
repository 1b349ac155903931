package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/socialite/internal/activity"
	"github.com/ziadkadry99/socialite/internal/progress"
	"github.com/ziadkadry99/socialite/internal/render"
	"github.com/ziadkadry99/socialite/internal/walker"
)

var renderCmd = &cobra.Command{
	Use:   "render [patterns...]",
	Short: "Render every page under pages_dir into output_dir",
	Long: `Walks pages_dir for HTML and Markdown pages, activates the social widgets
on each and writes the result to output_dir. Optional glob patterns
replace the configured include list.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().Bool("process-only", false, "prepare widget markup without appending network scripts")
	renderCmd.Flags().Bool("assume-ready", false, "mark every appended network as loaded (overrides config)")
	renderCmd.Flags().String("out", "", "output directory (overrides config)")
	renderCmd.Flags().Int("concurrency", 0, "max pages rendered in parallel (overrides config)")
	renderCmd.Flags().Bool("record", false, "record each render in the activity log")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.OutputDir = out
	}
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		cfg.MaxConcurrency = n
	}
	if cmd.Flags().Changed("assume-ready") {
		cfg.AssumeReady, _ = cmd.Flags().GetBool("assume-ready")
	}
	processOnly, _ := cmd.Flags().GetBool("process-only")
	record, _ := cmd.Flags().GetBool("record")

	include := cfg.Include
	if len(args) > 0 {
		include = args
	}
	pages, err := walker.Walk(walker.Config{
		RootDir: cfg.PagesDir,
		Include: include,
		Exclude: cfg.Exclude,
	})
	if err != nil {
		return fmt.Errorf("finding pages: %w", err)
	}
	if len(pages) == 0 {
		fmt.Fprintf(os.Stderr, "No pages found in %s\n", cfg.PagesDir)
		return nil
	}

	renderer, _, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	var store *activity.Store
	if record {
		database, err := openActivityDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		store = activity.NewStore(database)
	}

	reporter := progress.NewReporter()
	reporter.Start(len(pages))
	batch := &render.Batch{
		Renderer:    renderer,
		OutputDir:   cfg.OutputDir,
		Options:     render.Options{ProcessOnly: processOnly, AssumeReady: cfg.AssumeReady},
		Concurrency: cfg.MaxConcurrency,
		OnProgress: func(done, total int, rel string) {
			reporter.Update(done, rel)
		},
	}
	result := batch.Run(ctx, pages)
	reporter.Finish()

	instances := 0
	for _, p := range result.Pages {
		instances += p.Result.Instances
		if store != nil {
			if err := store.Record(ctx, p.Result.Activity(p.RelPath)); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: recording %s: %v\n", p.RelPath, err)
			}
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "  %s -> %s (%d widgets, networks %v)\n",
				p.RelPath, p.OutPath, p.Result.Instances, p.Result.Networks)
		}
	}

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "Error: %v\n", e)
	}

	fmt.Printf("Rendered %d pages (%d widgets) into %s in %s\n",
		len(result.Pages), instances, cfg.OutputDir, time.Since(start).Round(time.Millisecond))

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d pages failed", len(result.Errors))
	}
	return nil
}
