// BigBite: snap your ingredients, get recipes.
//
// Usage:
//
//	bigbite [-verbose] [-quiet] [-demo] [-api-url URL] [photo]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/bigbite/internal/api"
	"github.com/hammamikhairi/bigbite/internal/config"
	"github.com/hammamikhairi/bigbite/internal/conversation"
	"github.com/hammamikhairi/bigbite/internal/display"
	"github.com/hammamikhairi/bigbite/internal/domain"
	"github.com/hammamikhairi/bigbite/internal/engine"
	"github.com/hammamikhairi/bigbite/internal/logger"
	"github.com/hammamikhairi/bigbite/internal/photo"
	"github.com/hammamikhairi/bigbite/internal/recipe"
	"github.com/hammamikhairi/bigbite/internal/speech"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "file to write logs to (use \"stderr\" to log to console; default from config)")
	apiURL := flag.String("api-url", "", "backend base URL (overrides BIGBITE_API_URL / VITE_API_URL)")
	demo := flag.Bool("demo", false, "use the built-in demo catalogue instead of the backend")
	noSpeech := flag.Bool("no-speech", false, "disable text-to-speech even if Azure keys are set")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.API.URL = *apiURL
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Logs go to a file by default so the screen stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "stderr" {
		if dir := filepath.Dir(cfg.Log.File); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.Log.File, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies.
	var svc domain.RecipeService
	if *demo {
		svc = recipe.NewMemoryService(log.WithPrefix("demo"), recipe.WithLatency(600*time.Millisecond))
		log.Info("demo mode: using the built-in catalogue")
	} else {
		client := api.NewClient(cfg.API.URL, log.WithPrefix("api"))
		svc = client
		logHealth(ctx, client, log)
	}

	eng := engine.New(svc, log.WithPrefix("engine"))
	parser := conversation.NewKeywordParser(log)

	narrator, speechOn := buildNarrator(ctx, cfg, *noSpeech, log.WithPrefix("speech"))

	ui := display.NewUI(ctx, display.Deps{
		Engine:      eng,
		Parser:      parser,
		Narrator:    narrator,
		Load:        photo.Load,
		Log:         log,
		SpeechOn:    speechOn,
		InitialPath: flag.Arg(0),
	})

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

// buildNarrator returns the Azure-backed narrator when credentials and an
// audio device are available, and a silent one otherwise.
func buildNarrator(ctx context.Context, cfg config.Config, disabled bool, log *logger.Logger) (domain.Narrator, bool) {
	if disabled {
		return speech.NewSilent(log), false
	}
	if !cfg.SpeechEnabled() {
		log.Info("TTS disabled: set AZURE_SPEECH_KEY and AZURE_SPEECH_REGION to enable")
		return speech.NewSilent(log), false
	}

	player, err := speech.NewOtoPlayer(log)
	if err != nil {
		log.Error("audio player init failed, speech disabled: %v", err)
		return speech.NewSilent(log), false
	}

	tts := speech.NewAzureClient(cfg.Speech.Key, cfg.Speech.Region, log, speech.WithVoice(cfg.Speech.Voice))
	cache := speech.NewAudioCache(tts.Voice(), cfg.Speech.CacheDir, cfg.Speech.DiskCache, log)
	n := speech.NewNarrator(tts, player, log, speech.WithCache(cache))
	n.Start(ctx)

	log.Info("TTS enabled (voice=%s, region=%s)", tts.Voice(), cfg.Speech.Region)
	return n, true
}

// logHealth records the backend status at start-up. Failure is not fatal:
// the backend may come up later.
func logHealth(ctx context.Context, hc domain.HealthChecker, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	h, err := hc.Health(ctx)
	if err != nil {
		log.Warn("backend health check failed: %v", err)
		return
	}
	log.Info("backend %s, models loaded: %v", h.Status, h.ModelsLoaded)
}
