package main

import (
	"GameTimer/internal/config"
	"GameTimer/internal/sound"
	"GameTimer/internal/storage"
	"GameTimer/internal/timer"
	"GameTimer/internal/ui"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"fyne.io/fyne/v2/app"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file, default ~/.game-timer/config.yaml")
	showHistory := flag.Bool("history", false, "print the most recent rounds and exit")
	flag.Parse()

	// 初始化配置管理器
	configManager, err := config.NewManager(*configPath)
	if err != nil {
		slog.Error("can't load configuration", "error", err)
		os.Exit(1)
	}
	cfg := configManager.GetConfig()
	setupLog(cfg)

	db := openHistory(cfg)
	if db != nil {
		defer db.Close()
	}

	if *showHistory {
		if db == nil {
			slog.Error("history is disabled or unavailable", "path", cfg.History.Path)
			os.Exit(1)
		}
		if err := printHistory(context.Background(), db, os.Stdout, 20); err != nil {
			slog.Error("can't read history", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, db); err != nil {
		slog.Error("game timer stopped with error", "error", err)
		os.Exit(1)
	}
}

func setupLog(cfg *config.Config) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
}

// openHistory 打开对局记录数据库，失败时不记录历史继续运行
func openHistory(cfg *config.Config) *storage.Database {
	if !cfg.History.Enabled {
		return nil
	}
	db, err := storage.NewDatabase(cfg.History.Path)
	if err != nil {
		slog.Warn("running without round history", "error", err)
		return nil
	}
	return db
}

func run(cfg *config.Config, db *storage.Database) error {
	player := sound.NewPlayer(sound.Options{
		Enabled:  cfg.Sound.Enabled,
		Volume:   cfg.Sound.Volume,
		AssetDir: cfg.Sound.AssetDir,
	})
	controller := timer.NewController(timer.SystemClock, player)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if db != nil {
		recorder := timer.NewRecorder(db)
		controller.OnChange(recorder.Observe)
		g.Go(func() error { return recorder.Run(ctx) })
	}

	// 创建应用
	myApp := app.New()

	// 创建主窗口
	mainWindow := ui.NewMainWindow(myApp, cfg, controller)
	controller.OnChange(mainWindow.View().Update)
	mainWindow.SetOnClosed(cancel)

	g.Go(func() error { return controller.Run(ctx) })

	slog.Info("game timer started", "name", cfg.App.Name)
	mainWindow.Show()

	cancel()
	return g.Wait()
}

func printHistory(ctx context.Context, db *storage.Database, out io.Writer, limit int) error {
	rounds, err := db.RecentRounds(ctx, limit)
	if err != nil {
		return err
	}
	stats, err := db.GetRoundStats(ctx, time.Time{}, time.Now().UTC())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tPLAYED\tOUTCOME")
	for _, r := range rounds {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			r.StartTime.Local().Format("2006-01-02 15:04"),
			timer.FormatCountdown(int(r.Elapsed)),
			r.Outcome)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "\n%d rounds, %d played to the end, %s played in total\n",
		stats.TotalRounds, stats.FinishedRounds, time.Duration(stats.TotalElapsed)*time.Second)
	return err
}
