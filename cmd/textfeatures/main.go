package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/tsawler/textfeatures"
	"github.com/tsawler/textfeatures/logging"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}
	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "textfeatures: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:      "textfeatures",
		Usage:     "compute linguistic features for a corpus of texts",
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		Commands: []*cli.Command{
			extractCommand(ui),
			featuresCommand(ui),
			resourcesCommand(ui),
			configCommand(ui),
		},
	}
}

func extractCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "add feature columns to a CSV or TSV corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "corpus file", Required: true},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file", Required: true},
			&cli.StringFlag{Name: "annotations", Usage: "JSON Lines annotations; selects the precomputed backbone"},
			&cli.StringFlag{Name: "resources", Usage: "lexicon directory"},
			&cli.StringFlag{Name: "senses", Usage: "tab-separated lemma, POS, synset count table"},
			&cli.IntFlag{Name: "workers", Usage: "goroutines per feature"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log every feature"},
			&cli.BoolFlag{Name: "no-progress", Usage: "hide the progress bar"},
		},
		Action: func(cCtx *cli.Context) error {
			cfg, err := loadConfig(cCtx)
			if err != nil {
				return err
			}
			return runExtract(cCtx.Context, cfg, cCtx.String("input"), cCtx.String("output"), !cCtx.Bool("no-progress"), ui)
		},
	}
}

func loadConfig(cCtx *cli.Context) (textfeatures.Config, error) {
	cfg := textfeatures.DefaultConfig()
	if path := cCtx.String("config"); path != "" {
		loaded, err := textfeatures.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv("TEXTFEATURES"); err != nil {
		return cfg, err
	}

	if cCtx.IsSet("annotations") {
		cfg.Annotations = cCtx.String("annotations")
		cfg.Backbone = "precomputed"
	}
	if cCtx.IsSet("resources") {
		cfg.ResourceDir = cCtx.String("resources")
	}
	if cCtx.IsSet("senses") {
		cfg.Senses = cCtx.String("senses")
	}
	if cCtx.IsSet("workers") {
		cfg.Workers = cCtx.Int("workers")
	}
	if cCtx.Bool("verbose") {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

func runExtract(ctx context.Context, cfg textfeatures.Config, input, output string, progress bool, ui UI) error {
	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ex, err := textfeatures.NewExtractor(cfg)
	if err != nil {
		return err
	}

	var bar *uiprogress.Bar
	opts := cfg.CorpusOptions()
	if progress {
		opts = append(opts, textfeatures.WithProgressCallback(func(done, total int) {
			if bar != nil {
				bar.Incr()
			}
		}))
	}

	corpus, err := textfeatures.ReadCorpusFile(input, opts...)
	if err != nil {
		return err
	}

	if progress && corpus.Len() > 0 {
		uiprogress.Start()
		bar = uiprogress.AddBar(corpus.Len())
		bar.AppendCompleted()
		bar.PrependElapsed()
	}
	err = ex.Extract(ctx, corpus)
	if bar != nil {
		uiprogress.Stop()
	}
	if err != nil {
		return err
	}

	if err := textfeatures.WriteCorpusFile(output, corpus); err != nil {
		return err
	}
	fmt.Fprintf(ui.Out, "Wrote %d rows and %d columns to %s\n", corpus.Len(), len(corpus.Columns()), output)
	return nil
}

func featuresCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "features",
		Usage: "list the registered features by area",
		Action: func(cCtx *cli.Context) error {
			reg := textfeatures.NewRegistry()
			for _, area := range reg.Areas() {
				fmt.Fprintf(ui.Out, "%s\n", area)
				for _, name := range reg.Features(area) {
					e, _ := reg.Lookup(name)
					line := "  " + name
					if e.Lexicon != "" {
						line += fmt.Sprintf(" (lexicon %s)", e.Lexicon)
					}
					fmt.Fprintln(ui.Out, line)
				}
			}
			return nil
		},
	}
}

func resourcesCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "resources",
		Usage: "list the lexicon catalogue and whether each file is present",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "resources", Value: "resources", Usage: "lexicon directory"},
			&cli.StringFlag{Name: "language", Value: "en", Usage: "language of the lexicons"},
		},
		Action: func(cCtx *cli.Context) error {
			provider := textfeatures.NewDirProvider(cCtx.String("resources"), textfeatures.Language(cCtx.String("language")))
			for _, id := range textfeatures.ResourceIDs(provider.Resources) {
				res := provider.Resources[id]
				status := "missing"
				if path, err := provider.Resolve(id); err == nil {
					status = path
				}
				fmt.Fprintf(ui.Out, "%-24s %s/%s\t%s\n", id, res.Area, res.Subarea, status)
			}
			return nil
		},
	}
}

func configCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "print the default configuration as YAML",
		Action: func(cCtx *cli.Context) error {
			enc := yaml.NewEncoder(ui.Out)
			enc.SetIndent(2)
			if err := enc.Encode(textfeatures.DefaultConfig()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
