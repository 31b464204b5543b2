package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"aluguelcompra/server/config"
	"aluguelcompra/server/internal/publish"
	"aluguelcompra/server/internal/rates"
	"aluguelcompra/server/internal/report"
	"aluguelcompra/server/internal/runner"
	"aluguelcompra/server/internal/scraping"
	"aluguelcompra/server/internal/simulation"
)

type options struct {
	params   simulation.Params
	format   report.Format
	noScrape bool
	output   string
	docsDir  string
	rates    string
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("relatorio", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Relatório Aluguel vs Compra - Bom Pastor, Divinópolis/MG")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage: relatorio [options]")
		fs.PrintDefaults()
	}

	defaults := simulation.ParamsFromConfig(cfg)
	opts := &options{}
	fs.Float64Var(&opts.params.Price, "preco", defaults.Price, "Preço do imóvel")
	fs.Float64Var(&opts.params.InitialRent, "aluguel", defaults.InitialRent, "Aluguel mensal inicial")
	fs.Float64Var(&opts.params.DownPaymentFraction, "entrada", defaults.DownPaymentFraction, "Percentual de entrada")
	fs.Float64Var(&opts.params.AnnualFinancingRate, "juros", defaults.AnnualFinancingRate, "Taxa de financiamento anual")
	fs.Float64Var(&opts.params.ExtraAmortizationFraction, "amortizacao", defaults.ExtraAmortizationFraction, "Amortização extra como fração da parcela")
	export := fs.String("export", "texto", "Formato de saída: texto, csv, json ou pdf")
	fs.BoolVar(&opts.noScrape, "no-scrape", false, "Pular scraping (usar só simulação)")
	fs.StringVar(&opts.output, "output", "", "Arquivo de saída (default: stdout)")
	fs.StringVar(&opts.docsDir, "docs-dir", cfg.Publish.DocsDir, "Publica data/YYYY-MM-DD.json, latest.json e history.json neste diretório")
	fs.StringVar(&opts.rates, "rates", cfg.Simulation.RatesFile, "Arquivo YAML com cenário alternativo de juros, ou \"ciclos\" para o cenário de ciclos")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	format, err := report.ParseFormat(*export)
	if err != nil {
		return nil, err
	}
	opts.format = format
	return opts, nil
}

func run(ctx context.Context, opts *options, cfg *config.Config, stdout io.Writer, logger *logrus.Logger) error {
	timeline, err := rates.Load(opts.rates)
	if err != nil {
		return err
	}
	engine, err := simulation.NewEngine(timeline)
	if err != nil {
		return err
	}

	var runOpts []runner.Option
	if opts.noScrape {
		logger.Info("Scraping skipped (--no-scrape)")
	} else {
		manager, err := scraping.NewManager(cfg, logger)
		if err != nil {
			return err
		}
		runOpts = append(runOpts, runner.WithCollector(manager))
	}
	if opts.docsDir != "" {
		runOpts = append(runOpts, runner.WithPublisher(publish.NewPublisher(opts.docsDir, logger)))
	}

	snapshot, err := runner.New(engine, opts.params, logger, runOpts...).Run(ctx)
	if err != nil {
		return err
	}

	data, err := snapshot.Report().Render(opts.format)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Infof("Report saved to: %s", opts.output)
	return nil
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	opts, err := parseFlags(os.Args[1:], cfg, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.WithError(err).Fatal("Invalid arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg, os.Stdout, logger); err != nil {
		logger.WithError(err).Fatal("Report failed")
	}
}
