package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/roboeyes/api"
	"github.com/banshee-data/roboeyes/db"
	"github.com/banshee-data/roboeyes/internal/config"
	"github.com/banshee-data/roboeyes/internal/eyes"
	"github.com/banshee-data/roboeyes/internal/mood"
	"github.com/banshee-data/roboeyes/internal/sensor"
	"github.com/banshee-data/roboeyes/internal/serialmux"
	"github.com/banshee-data/roboeyes/internal/timeutil"
)

var (
	devMode    = flag.Bool("dev", false, "Run with the mock sensor fed from the fixtures file")
	listen     = flag.String("listen", ":8080", "Listen address")
	configPath = flag.String("config", "", "Path to a JSON config file")
	portPath   = flag.String("port", "", "Serial device path (overrides the configured channel_id)")
	dbFile     = flag.String("db", "eyes_data.db", "Path to the sqlite database")
	fixtures   = flag.String("fixtures", "fixtures.txt", "Fixture lines for dev mode")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	clock := timeutil.RealClock{}

	// The serial mux is optional: if the device cannot be opened the reader
	// runs on the simulated distance generator instead, so the eyes always
	// animate.
	var mux serialmux.Interface
	if *devMode {
		data, err := os.ReadFile(*fixtures)
		if err != nil {
			log.Fatalf("failed to open fixtures file: %v", err)
		}
		mux = serialmux.NewMock(data, cfg.GetSampleInterval())
	} else {
		channel := cfg.GetChannelID()
		if *portPath != "" {
			channel = *portPath
		}
		m, err := serialmux.NewReal(channel, cfg.GetSerial())
		if err != nil {
			log.Printf("failed to open serial channel %s: %v; falling back to simulation", channel, err)
		} else {
			mux = m
		}
	}
	if mux != nil {
		defer mux.Close()
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	table, err := cfg.ZoneTable()
	if err != nil {
		log.Fatalf("invalid zone table: %v", err)
	}
	classifier, err := mood.NewClassifier(table, cfg.GetDwell())
	if err != nil {
		log.Fatalf("failed to create classifier: %v", err)
	}

	var source sensor.LineSource
	if mux != nil {
		source = mux
	}
	sim := sensor.NewSimulator(clock, rand.Int63())
	reader := sensor.NewReader(source, sim, clock, cfg.GetGrace(), cfg.GetSampleInterval())

	engine := eyes.NewEngine(cfg.EyesConfig(), nil)

	events := make(chan eyes.Event, 8)
	var commander api.Commander
	if mux != nil {
		commander = mux
	}
	srv := api.NewServer(database, events, commander)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the monitor routine to manage IO on the serial port
	if mux != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := mux.Monitor(ctx); err != nil && err != context.Canceled {
				log.Printf("failed to monitor serial port: %v", err)
			}
			log.Print("monitor routine terminated")
		}()
	}

	// feed the latest-sample slot from the serial stream or the simulator
	wg.Add(1)
	go func() {
		defer wg.Done()
		reader.Run(ctx)
		log.Print("sensor routine terminated")
	}()

	// the frame loop drives classification, animation, and publishing
	wg.Add(1)
	go func() {
		defer wg.Done()
		loop := &frameLoop{
			cfg:        cfg,
			reader:     reader,
			classifier: classifier,
			engine:     engine,
			srv:        srv,
			db:         database,
			clock:      clock,
			events:     events,
		}
		loop.run(ctx)
		log.Print("frame loop terminated")
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		server := &http.Server{
			Addr:    *listen,
			Handler: srv.ServeMux(),
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
