// timenlu extracts natural-language time expressions (Chinese/English) into
// absolute UTC instants and intervals.
//
// Usage:
//
//	timenlu --language chinese --text "明天上午9点开会"
//	timenlu --language english --file queries.jsonl
//	timenlu serve --language chinese --port 8192
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/y00281951/fst-time-nlu/extractor"
	"github.com/y00281951/fst-time-nlu/internal/profile"
	"github.com/y00281951/fst-time-nlu/server"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "timenlu",
		Short: "Natural-language time expression extraction",
		RunE:  runExtract,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `mode of the run: "prod" or "dev"`)
	flags.String("language", "chinese", `grammar language: "chinese" or "english"`)
	flags.String("cache-dir", "", "directory for the compiled grammar artifact")
	flags.Bool("overwrite-cache", false, "force grammar recompilation")

	rootCmd.Flags().String("text", "", "utterance to extract from")
	rootCmd.Flags().String("file", "", "JSONL batch file: one {text, base_time} object per line")
	rootCmd.Flags().String("base-time", "", "reference instant, ISO-8601 UTC (default: now)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction HTTP API",
		RunE:  runServe,
	}
	serveCmd.Flags().String("addr", "", "binding address")
	serveCmd.Flags().Int("port", 8192, "binding port")
	rootCmd.AddCommand(serveCmd)

	cobra.OnInitialize(func() {
		viper.SetEnvPrefix("timenlu")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
	})
	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(prof *profile.Profile) {
	level := slog.LevelInfo
	if prof.IsDev() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func newExtractor(prof *profile.Profile) (*extractor.Extractor, error) {
	return extractor.New(
		extractor.Language(prof.Language),
		extractor.WithCacheDir(prof.CacheDir),
		extractor.WithOverwriteCache(prof.OverwriteCache),
	)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	prof, err := profile.FromViper(version)
	if err != nil {
		return err
	}
	setupLogger(prof)

	text, _ := cmd.Flags().GetString("text")
	file, _ := cmd.Flags().GetString("file")
	baseTime, _ := cmd.Flags().GetString("base-time")
	if text == "" && file == "" {
		return errors.New("one of --text or --file is required")
	}

	ext, err := newExtractor(prof)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if text != "" {
		return emitLine(out, ext, text, baseTime)
	}
	return runBatch(out, ext, file)
}

type batchLine struct {
	Text     string `json:"text"`
	BaseTime string `json:"base_time,omitempty"`
	Results  []any  `json:"results"`
	QueryTag string `json:"query_tag"`
}

func emitLine(out *bufio.Writer, ext *extractor.Extractor, text, baseTime string) error {
	results, qt, err := ext.ExtractISO(text, baseTime)
	if err != nil {
		return err
	}
	enc, err := json.Marshal(batchLine{Text: text, BaseTime: baseTime, Results: results, QueryTag: qt})
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	fmt.Fprintln(out, string(enc))
	return nil
}

// runBatch streams a JSONL file of {text, base_time} objects and appends
// {results, query_tag} per line. A malformed line is reported and skipped.
func runBatch(out *bufio.Writer, ext *extractor.Extractor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open batch file %q", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var in batchLine
		if err := json.Unmarshal([]byte(line), &in); err != nil {
			slog.Warn("skipping malformed batch line", "line", lineNo, "error", err)
			continue
		}
		if err := emitLine(out, ext, in.Text, in.BaseTime); err != nil {
			slog.Warn("skipping batch line", "line", lineNo, "error", err)
		}
	}
	return errors.Wrap(scanner.Err(), "read batch file")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	prof, err := profile.FromViper(version)
	if err != nil {
		return err
	}
	prof.Addr = viper.GetString("addr")
	prof.Port = viper.GetInt("port")
	setupLogger(prof)

	ext, err := newExtractor(prof)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(prof, ext).Start(ctx)
}
