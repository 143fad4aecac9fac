package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"botfield.ai/internal/observerproto"
	"botfield.ai/internal/persistence/indexdb"
	persistlog "botfield.ai/internal/persistence/log"
	"botfield.ai/internal/persistence/record"
	"botfield.ai/internal/sim/tuning"
	"botfield.ai/internal/sim/world"
	"botfield.ai/internal/transport/observer"
	"botfield.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8000", "http listen address")
		configPath = flag.String("config", "./configs/tuning.yaml", "path to tuning.yaml")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite record history")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := tuning.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", *configPath)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	_ = os.MkdirAll(*dataDir, 0o755)

	store := record.NewStore(filepath.Join(*dataDir, "record.json"))
	rec, err := store.Load()
	if err != nil {
		// An unreadable record file means "no record yet", never a crash.
		logger.Printf("load record: %v (starting with zero record)", err)
		rec = observerproto.Record{}
	}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.Open(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open record history db: %v", err)
		}
		defer idx.Close()
	}

	eventLog := persistlog.NewEventLogger(*dataDir)
	defer eventLog.Close()

	w := world.New(worldConfig(tune), rec, log.New(os.Stdout, "[world] ", log.LstdFlags|log.Lmicroseconds))
	w.SetEventLogger(eventLog)

	ctx, cancel := signalContext()
	defer cancel()

	// Record persistence runs off the world loop's hot path.
	recCh := make(chan observerproto.Record, 4)
	w.SetRecordSink(recCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-recCh:
				if err := store.Save(r); err != nil {
					logger.Printf("save record: %v", err)
				}
				if idx != nil {
					if err := idx.RecordImproved(r); err != nil {
						logger.Printf("record history: %v", err)
					}
				}
			}
		}
	}()

	go func() {
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		m := w.Metrics()

		fmt.Fprintf(rw, "# HELP botfield_bots Current number of live bots.\n")
		fmt.Fprintf(rw, "# TYPE botfield_bots gauge\n")
		fmt.Fprintf(rw, "botfield_bots %d\n", m.Bots)

		fmt.Fprintf(rw, "# HELP botfield_foods Current number of foods on the board.\n")
		fmt.Fprintf(rw, "# TYPE botfield_foods gauge\n")
		fmt.Fprintf(rw, "botfield_foods %d\n", m.Foods)

		fmt.Fprintf(rw, "# HELP botfield_observers Current number of observer connections.\n")
		fmt.Fprintf(rw, "# TYPE botfield_observers gauge\n")
		fmt.Fprintf(rw, "botfield_observers %d\n", m.Observers)

		fmt.Fprintf(rw, "# HELP botfield_ticks_total Bot ticks processed.\n")
		fmt.Fprintf(rw, "# TYPE botfield_ticks_total counter\n")
		fmt.Fprintf(rw, "botfield_ticks_total %d\n", m.Ticks)

		fmt.Fprintf(rw, "# HELP botfield_queue_depth Update channel backlog depth.\n")
		fmt.Fprintf(rw, "# TYPE botfield_queue_depth gauge\n")
		fmt.Fprintf(rw, "botfield_queue_depth %d\n", m.QueueDepth)
	})
	if idx != nil {
		// Local-only read model of past records.
		mux.HandleFunc("/records", func(rw http.ResponseWriter, r *http.Request) {
			if !isLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			ctx2, cancel2 := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel2()
			recs, err := idx.TopRecords(ctx2, 10)
			if err != nil {
				http.Error(rw, err.Error(), http.StatusInternalServerError)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(rw).Encode(recs)
		})
	}
	mux.HandleFunc("/ws", ws.NewServer(w, logger).Handler())
	mux.HandleFunc("/ws/web", observer.NewServer(w, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func worldConfig(t tuning.Tuning) world.Config {
	return world.Config{
		BoardW: t.BoardW,
		BoardH: t.BoardH,

		StartEnergy: t.StartEnergy,
		FoodValue:   t.FoodValue,

		FoodTarget:        t.FoodTarget,
		FoodInitial:       t.FoodInitial,
		FoodPlaceAttempts: t.FoodPlaceAttempts,
		RegenEvery:        time.Duration(t.RegenEverySec) * time.Second,

		IdleCheckEvery: time.Duration(t.IdleCheckEverySec) * time.Second,
		IdleResetAfter: time.Duration(t.IdleResetAfterSec) * time.Second,
		IdleResetMax:   time.Duration(t.IdleResetMaxSec) * time.Second,

		Seed: t.Seed,

		Palette:       t.Palette,
		FallbackColor: t.FallbackColor,
		Symbols:       t.Symbols,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
