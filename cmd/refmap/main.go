package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kasumigaseki/refmap/pkg/detect"
	"github.com/kasumigaseki/refmap/pkg/lawid"
	"github.com/kasumigaseki/refmap/pkg/llm"
	"github.com/kasumigaseki/refmap/pkg/pattern"
	"github.com/kasumigaseki/refmap/pkg/ref"
	"github.com/kasumigaseki/refmap/pkg/tracker"
)

var version = "0.1.0"

var log zerolog.Logger

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "refmap",
		Short: "Statutory cross-reference detector",
		Long: `Refmap detects and resolves cross-references in Japanese statutory
text: explicit citations (民法第九十条), relative forms (前条, 次項),
contextual mentions (同法), ranges (第一条から第三条まで) and alias
definitions (以下「新法」という).`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).
				With().Timestamp().Logger()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(patternsCmd())
	rootCmd.AddCommand(lawsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildDetector assembles a detector from the shared flags.
func buildDetector(cfg detect.Config, catalogue, rulesDir, provider, model string) (*detect.Detector, error) {
	laws := lawid.NewCatalogue()
	if catalogue != "" {
		var err error
		laws, err = lawid.LoadCatalogue(catalogue)
		if err != nil {
			return nil, err
		}
		log.Debug().Int("laws", laws.Len()).Str("path", catalogue).Msg("catalogue loaded")
	}

	d := detect.NewDetector(laws, cfg)
	d.SetLogger(log)

	if rulesDir != "" {
		reg, err := pattern.NewRegistryWithDirectory(rulesDir)
		if err != nil {
			return nil, err
		}
		d.SetLibrary(reg.Library())
	}

	if provider != "" {
		p, err := llm.NewProvider(provider, model)
		if err != nil {
			return nil, err
		}
		d.SetDisambiguator(llm.NewDisambiguator(p))
		log.Debug().Str("provider", provider).Msg("llm disambiguation enabled")
	}

	return d, nil
}

func analyzeCmd() *cobra.Command {
	var (
		lawID     string
		article   float64
		catalogue string
		rulesDir  string
		provider  string
		model     string
	)

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Detect references in one text",
		Long: `Detect and resolve every cross-reference in a statutory text.
Reads the named file, or stdin when no file is given, and prints the
references as JSON.

Example:
  refmap analyze --law-id 129AC0000000089 --article 90 minpo-90.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return err
			}

			d, err := buildDetector(detect.Config{}, catalogue, rulesDir, provider, model)
			if err != nil {
				return err
			}

			seed := tracker.New(lawID, article)
			refs, err := d.Detect(cmd.Context(), string(data), seed)
			if err != nil {
				return err
			}

			stats := ref.CalculateStats(refs)
			log.Info().Int("references", stats.Total).Int("resolved", stats.Resolved).Msg("analysis complete")

			return printJSON(refs)
		},
	}

	cmd.Flags().StringVar(&lawID, "law-id", "", "identifier of the host law")
	cmd.Flags().Float64Var(&article, "article", 0, "article number of the analyzed text")
	cmd.Flags().StringVar(&catalogue, "catalogue", "", "YAML law catalogue path")
	cmd.Flags().StringVar(&rulesDir, "rules", "", "directory of YAML overlay rules")
	cmd.Flags().StringVar(&provider, "llm", "", "LLM provider for ambiguous mentions (anthropic, openai)")
	cmd.Flags().StringVar(&model, "model", "", "LLM model name")
	return cmd
}

func batchCmd() *cobra.Command {
	var (
		lawID     string
		catalogue string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Detect references across many files",
		Long: `Run detection over multiple files with a worker pool. Each file is
treated as one article of the host law; results are printed as one JSON
document keyed by file name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDetector(detect.Config{Workers: workers}, catalogue, "", "", "")
			if err != nil {
				return err
			}

			docs := make([]detect.Document, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				docs = append(docs, detect.Document{ID: path, LawID: lawID, Text: string(data)})
			}

			results := d.ScanAll(cmd.Context(), docs)

			out := make(map[string][]ref.Reference, len(results))
			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					log.Error().Str("doc", res.Document.ID).Err(res.Err).Msg("scan failed")
					continue
				}
				out[res.Document.ID] = res.Refs
			}
			if err := printJSON(out); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(docs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lawID, "law-id", "", "identifier of the host law")
	cmd.Flags().StringVar(&catalogue, "catalogue", "", "YAML law catalogue path")
	cmd.Flags().IntVar(&workers, "workers", 4, "worker pool size")
	return cmd
}

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect the detection rule table",
	}
	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsValidateCmd())
	return cmd
}

func patternsListCmd() *cobra.Command {
	var rulesDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List detection rules in match order",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := pattern.NewLibrary()
			if rulesDir != "" {
				reg, err := pattern.NewRegistryWithDirectory(rulesDir)
				if err != nil {
					return err
				}
				lib = reg.Library()
			}

			for i, r := range lib.Rules() {
				fmt.Printf("%2d  %-28s %-12s %-12s %.2f\n", i+1, r.Name, r.Category, r.Type, r.BaseConfidence)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesDir, "rules", "", "directory of YAML overlay rules")
	return cmd
}

func patternsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate YAML overlay rule files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bad := 0
			for _, path := range args {
				if err := pattern.NewRegistry().LoadFile(path); err != nil {
					bad++
					fmt.Printf("FAIL  %s: %v\n", path, err)
					continue
				}
				fmt.Printf("ok    %s\n", path)
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d files invalid", bad, len(args))
			}
			return nil
		},
	}
}

func lawsCmd() *cobra.Command {
	var catalogue string

	cmd := &cobra.Command{
		Use:   "laws [name-or-number...]",
		Short: "Resolve law names and promulgation numbers",
		Long: `Resolve each argument to a law identifier, using the name dictionary
first and the era/number parser second.

Example:
  refmap laws 民法 明治二十九年法律第八十九号`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			laws := lawid.NewCatalogue()
			if catalogue != "" {
				var err error
				laws, err = lawid.LoadCatalogue(catalogue)
				if err != nil {
					return err
				}
			}

			missed := 0
			for _, arg := range args {
				if id, ok := laws.FindLawIDByName(arg); ok {
					fmt.Printf("%s  %s\n", id, arg)
					continue
				}
				if id, ok := laws.FindLawIDByNumber(arg); ok {
					title := laws.Title(id)
					if title == "" {
						title = arg
					}
					fmt.Printf("%s  %s\n", id, title)
					continue
				}
				missed++
				fmt.Printf("?  %s\n", arg)
			}
			if missed > 0 {
				return fmt.Errorf("%d of %d lookups failed", missed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogue, "catalogue", "", "YAML law catalogue path")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

