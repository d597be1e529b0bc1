package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Freeeeeet/mentors_bot/internal/app"
	"github.com/Freeeeeet/mentors_bot/internal/config"
	"github.com/Freeeeeet/mentors_bot/internal/controller/render"
	"github.com/Freeeeeet/mentors_bot/internal/directory"
	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/Freeeeeet/mentors_bot/internal/spreadsheet"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func main() {
	input := pflag.StringP("input", "i", "", "path to the mentors spreadsheet (.xlsx)")
	email := pflag.StringP("email", "e", "", "render only mentors with this email")
	outDir := pflag.StringP("out", "o", ".", "directory for the PNG files")
	workers := pflag.Int("workers", 4, "goroutines used to normalize rows")
	verbose := pflag.BoolP("verbose", "v", false, "log every skipped row")
	pflag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "--input is required")
		pflag.Usage()
		os.Exit(2)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := app.NewLogger(config.EnvDevelopment, level)
	defer logger.Sync()

	if err := run(*input, *email, *outDir, *workers, logger); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(input, email, outDir string, workers int, logger *zap.Logger) error {
	src, err := spreadsheet.OpenFile(input)
	if err != nil {
		return err
	}

	dir := directory.New(logger, directory.WithWorkers(workers))
	report, err := dir.Ingest(context.Background(), src)
	if err != nil {
		return err
	}

	fmt.Printf("📄 %s: %d rows, %d accepted, %d skipped, %d mentors\n",
		report.Source, report.RowsTotal, report.RowsOK, report.RowsFailed, report.Mentors)

	mentors := dir.All()
	if email != "" {
		mentors = dir.ByEmail(email)
	}
	if len(mentors) == 0 {
		return fmt.Errorf("no mentors to render")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for i, m := range mentors {
		data, err := render.GenerateAvailabilityImage(m)
		if err != nil {
			return fmt.Errorf("render %s: %w", m.Name, err)
		}

		path := filepath.Join(outDir, fileName(i, m))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("✅ %s\n", path)
	}

	return nil
}

// fileName порядковый номер нужен: email ключом не является
func fileName(i int, m model.Mentor) string {
	base := m.Email
	if base == "" {
		base = m.Name
	}
	base = strings.Trim(unsafeFileChars.ReplaceAllString(base, "_"), "_")
	return fmt.Sprintf("%03d_%s.png", i+1, base)
}
