package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/asnt/traindurance/activity"
	"github.com/asnt/traindurance/export"
	"github.com/asnt/traindurance/store"
	"github.com/asnt/traindurance/summary"
)

func main() {
	var (
		dbPath   = flag.String("db", "activities.db", "Path to the activities database")
		logLevel = flag.String("log", "info", "Log level: debug|info|warn")
	)
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage: %s [-db activities.db] [-log info] <command> [args]\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(out, "Commands:\n")
		fmt.Fprintf(out, "  init\n        Create the activities database.\n")
		fmt.Fprintf(out, "  import <file>...\n        Normalize and store activity files (.fit or HRMonitorApp .csv).\n")
		fmt.Fprintf(out, "  export [-format csv|parquet] <file> <output>\n        Normalize one activity file and write its recordings table.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	configureLogging(*logLevel)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "init":
		err = runInit(*dbPath)
	case "import":
		err = runImport(*dbPath, args[1:])
	case "export":
		err = runExport(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "traindurance %s failed: %v\n", args[0], err)
		os.Exit(1)
	}
}

func configureLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func runInit(dbPath string) error {
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	return db.Close()
}

func runImport(dbPath string, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no files to import")
	}
	slog.Debug("importing activities", "count", len(paths))

	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	failed := 0
	for _, path := range paths {
		if err := importActivity(db, path); err != nil {
			slog.Error("import failed", "file", path, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func importActivity(db *store.Store, path string) error {
	slog.Debug("importing", "file", path)

	fileHash, err := store.HashFile(path)
	if err != nil {
		return err
	}
	imported, err := db.HasActivity(fileHash)
	if err != nil {
		return err
	}
	if imported {
		slog.Debug("activity already imported", "file", path)
		return nil
	}

	meta, recordings, err := activity.Load(path)
	if err != nil {
		return err
	}
	meta.FileHash = &fileHash

	id, err := db.SaveActivity(meta, recordings, summary.Summarize(recordings))
	if err != nil {
		return err
	}
	slog.Info("imported activity", "file", path, "id", id, "channels", recordings.Channels(), "samples", recordings.Rows())
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "csv", "Output format: csv|parquet")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("export wants <file> <output>, got %d arguments", fs.NArg())
	}

	_, recordings, err := activity.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := export.WriteRecordings(fs.Arg(1), *format, recordings); err != nil {
		return err
	}
	fmt.Printf("exported %d channels x %d samples to %s\n", recordings.Channels(), recordings.Rows(), fs.Arg(1))
	return nil
}
