// cmd/predict/main.go
// Batch front end for the prediction pipeline.
//
// Usage:
//
//	go run ./cmd/predict setup
//	go run ./cmd/predict train
//	go run ./cmd/predict predict 1234
//	go run ./cmd/predict upcoming -days 3 -min-value 0.1 -notify
//	go run ./cmd/predict reconcile
//	go run ./cmd/predict stats -days 30
//	go run ./cmd/predict history -limit 20
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/padraicbc/footyvalue/config"
	bundb "github.com/padraicbc/footyvalue/db"
	applog "github.com/padraicbc/footyvalue/logger"
	"github.com/padraicbc/footyvalue/notify"
	"github.com/padraicbc/footyvalue/prediction"
	"github.com/padraicbc/footyvalue/store"
)

const usage = `usage: predict <command> [flags]

commands:
  setup                 create tables
  train                 fit the model on completed matches
  predict <match id>    predict one match and record it
  upcoming              scan fixtures for value picks
  reconcile             settle predictions for finished matches
  stats                 accuracy and ROI of reconciled predictions
  history               latest recorded predictions
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.LoadCLI()
	log, err := applog.NewCLI(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Fatal(os.Args[1]+" failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, cmd string, args []string, out io.Writer) error {
	db, err := bundb.Setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd == "setup" {
		if err := bundb.CreateTables(ctx, db, log); err != nil {
			return err
		}
		fmt.Fprintln(out, "tables ready")
		return nil
	}

	svc := prediction.New(store.New(db, log), prediction.Options{
		Window:        cfg.StatsWindow,
		TrainingLimit: cfg.TrainingLimit,
		ModelPath:     cfg.ModelPath,
	}, log)

	switch cmd {
	case "train":
		report, err := svc.Train(ctx)
		if err != nil {
			return err
		}
		printReport(out, report)

	case "predict":
		if len(args) != 1 {
			return fmt.Errorf("predict takes one match id")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad match id %q", args[0])
		}
		mp, err := svc.PredictMatch(ctx, id)
		if err != nil {
			return err
		}
		printPrediction(out, mp)

	case "upcoming":
		fs := flag.NewFlagSet("upcoming", flag.ExitOnError)
		days := fs.Int("days", cfg.ScanDays, "days ahead to scan")
		minValue := fs.Float64("min-value", cfg.MinValue, "minimum expected value of the best bet")
		minConf := fs.Float64("min-confidence", cfg.MinConfidence, "minimum probability gap")
		send := fs.Bool("notify", false, "publish picks to Telegram")
		_ = fs.Parse(args)

		picks, err := svc.ScanUpcoming(ctx, prediction.ScanParams{Days: *days, MinValue: *minValue, MinConfidence: *minConf})
		if err != nil {
			return err
		}
		printPicks(out, picks)

		if *send {
			if !cfg.TelegramEnabled() {
				return fmt.Errorf("-notify needs TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
			}
			tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, log)
			if err != nil {
				return err
			}
			if err := tg.Publish(ctx, picks); err != nil {
				return err
			}
		}

	case "reconcile":
		n, err := svc.Reconcile(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d predictions reconciled\n", n)

	case "stats":
		fs := flag.NewFlagSet("stats", flag.ExitOnError)
		days := fs.Int("days", cfg.PerformanceDays, "look-back window in days")
		_ = fs.Parse(args)

		perf, err := svc.ModelPerformance(ctx, *days)
		if err != nil {
			return err
		}
		printPerformance(out, perf)

	case "history":
		fs := flag.NewFlagSet("history", flag.ExitOnError)
		limit := fs.Int("limit", 20, "number of predictions")
		_ = fs.Parse(args)

		entries, err := svc.History(ctx, *limit)
		if err != nil {
			return err
		}
		printHistory(out, entries)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}
