// Command secdl fetches SEC EDGAR filings for stock tickers and converts
// them into readable HTML, Markdown or PDF documents.
//
// Subcommands:
//
//	download <tickers...>   fetch filings (and optionally convert them)
//	list-tickers            browse the SEC ticker registry
//	convert <path>          convert previously downloaded raw filings
//	config                  initialize or show the YAML configuration
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"secdl/pkg/core/config"
	"secdl/pkg/core/convert"
	"secdl/pkg/core/edgar"
	"secdl/pkg/core/logging"
	"secdl/pkg/core/pipeline"
	"secdl/pkg/core/store"
)

func usage() {
	fmt.Fprintf(os.Stderr, `secdl - SEC EDGAR filing downloader and converter

Usage:
  secdl download <tickers...> [--output-dir dir] [--convert] [--max-reports n] [--config file]
  secdl list-tickers [--search s] [--limit n] [--config file]
  secdl convert <path> [--output-dir dir] [--format pdf|html|markdown] [--config file]
  secdl config [--init] [--show] [--config file]
`)
}

func main() {
	// Optional; real configuration lives in the YAML file and environment.
	godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "download":
		err = runDownload(os.Args[2:])
	case "list-tickers":
		err = runListTickers(os.Args[2:])
	case "convert":
		err = runConvert(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger and EDGAR client most
// subcommands need.
func setup(configPath string) (*config.Config, *zap.SugaredLogger, *edgar.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, nil, nil, err
	}
	client := edgar.NewClient(
		edgar.WithUserAgent(cfg.SEC.UserAgent),
		edgar.WithEndpoints(cfg.SEC.BaseURL, cfg.SEC.APIURL, cfg.SEC.EdgarURL),
		edgar.WithRequestDelay(cfg.SEC.RequestDelay()),
		edgar.WithLogger(log),
	)
	return cfg, log, client, nil
}

func runDownload(args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	outputDir := fs.String("output-dir", "", "output directory (overrides config)")
	doConvert := fs.Bool("convert", false, "convert downloaded filings")
	maxReports := fs.Int("max-reports", 0, "max filings per company (overrides config)")
	configPath := fs.String("config", "", "config file path")
	fs.Parse(args)

	tickers := fs.Args()
	if len(tickers) == 0 {
		return fmt.Errorf("download: at least one ticker is required")
	}

	cfg, log, client, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if *outputDir != "" {
		cfg.Download.OutputDir = *outputDir
	}
	if *maxReports > 0 {
		cfg.Download.MaxReportsPerCompany = *maxReports
	}

	var conv *convert.Converter
	if *doConvert {
		conv = convert.NewConverter(cfg.Conversion.OutputFormat, cfg.Download.FormTypes[0],
			cfg.Conversion.IncludeAttachments, log)
	}

	dl := pipeline.NewDownloader(client, store.New(cfg.Download.OutputDir), conv,
		cfg.Download.FormTypes, cfg.Download.MaxReportsPerCompany, cfg.Download.YearsBack, log)

	results, err := dl.DownloadReports(context.Background(), tickers)
	if err != nil {
		return err
	}

	total := 0
	for ticker, paths := range results {
		log.Infof("%s: %d artifacts", ticker, len(paths))
		total += len(paths)
	}
	fmt.Printf("Done. %d tickers processed, %d artifacts under %s\n",
		len(results), total, cfg.Download.OutputDir)
	return nil
}

func runListTickers(args []string) error {
	fs := flag.NewFlagSet("list-tickers", flag.ExitOnError)
	search := fs.String("search", "", "filter by ticker or company name")
	limit := fs.Int("limit", 50, "maximum rows to print (0 = all)")
	configPath := fs.String("config", "", "config file path")
	fs.Parse(args)

	_, log, client, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	registry, err := client.FetchTickerRegistry(context.Background())
	if err != nil {
		return err
	}

	matches := registry.Search(*search, *limit)
	fmt.Printf("%-8s %-12s %s\n", "Ticker", "CIK", "Company Name")
	fmt.Printf("%-8s %-12s %s\n", "------", "---", "------------")
	for _, co := range matches {
		fmt.Printf("%-8s %-12s %s\n", co.Ticker, co.CIK, co.Title)
	}
	fmt.Printf("\n%d of %d companies shown\n", len(matches), registry.Len())
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	outputDir := fs.String("output-dir", "", "where converted files go (default: next to input)")
	format := fs.String("format", "", "pdf, html or markdown (overrides config)")
	configPath := fs.String("config", "", "config file path")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("convert: exactly one file or directory path is required")
	}
	target := fs.Arg(0)

	cfg, log, _, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if *format != "" {
		cfg.Conversion.OutputFormat = *format
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	conv := convert.NewConverter(cfg.Conversion.OutputFormat, cfg.Download.FormTypes[0],
		cfg.Conversion.IncludeAttachments, log)

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	if info.IsDir() {
		converted, failed, err := conv.ConvertDir(target, *outputDir)
		if err != nil {
			return err
		}
		fmt.Printf("Converted %d files, %d failed\n", converted, failed)
		if failed > 0 && converted == 0 {
			return fmt.Errorf("every conversion failed")
		}
		return nil
	}

	paths, err := conv.ConvertFile(target, *outputDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	doInit := fs.Bool("init", false, "write the default config file")
	show := fs.Bool("show", false, "print the effective configuration")
	configPath := fs.String("config", "", "config file path")
	fs.Parse(args)

	if *doInit {
		path := *configPath
		if path == "" {
			path = config.DefaultPath
		}
		if err := config.Init(path); err != nil {
			return err
		}
		fmt.Printf("wrote default configuration to %s\n", path)
		return nil
	}
	if *show {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		out, err := cfg.Dump()
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
	return fmt.Errorf("config: pass --init or --show")
}
