package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetpanel/backend"
	"fleetpanel/config"
	"fleetpanel/dispatch"
	"fleetpanel/events"
	"fleetpanel/poller"
	"fleetpanel/snapshot"
	"fleetpanel/store"
	"fleetpanel/www"
)

var Version = "dev"

// emitterSink adapts the Kafka emitter to the dispatcher's event sink.
type emitterSink struct {
	emitter *events.Emitter
}

func (s emitterSink) CommandFinished(commandID, action, target, actor, outcome, detail string) {
	s.emitter.EmitCommand(events.CommandEvent{
		CommandID: commandID,
		Action:    action,
		Target:    target,
		Actor:     actor,
		Outcome:   outcome,
		Detail:    detail,
	})
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "fleetpanel.yaml", "path to config file")
	flag.Parse()

	if *showVersion {
		fmt.Println("fleetpanel", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database
	db, err := store.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	log.Printf("fleetpanel: database open (%s)", cfg.Database.Driver)

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	redisUp := redisClient.Ping(ctx).Err() == nil
	cancel()
	if redisUp {
		log.Printf("fleetpanel: redis connected (%s)", cfg.Redis.Address)
	} else {
		log.Printf("fleetpanel: redis not available, running without snapshot mirror")
	}
	defer redisClient.Close()

	// Snapshot stores, warm-started from the mirror when available
	nodes := snapshot.NewNodeStore()
	files := snapshot.NewFileStore()
	var mirror *snapshot.Mirror
	if redisUp {
		mirror = snapshot.NewMirror(redisClient)
		primeCtx, primeCancel := context.WithTimeout(context.Background(), 3*time.Second)
		mirror.Prime(primeCtx, nodes, files)
		primeCancel()
	}

	// Backend client and pollers
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	fetchNodes := func(ctx context.Context) error {
		snap, err := client.FetchNodes(ctx)
		if err != nil {
			return err
		}
		nodes.Replace(snap)
		if mirror != nil {
			if err := mirror.SaveNodes(ctx, snap); err != nil {
				log.Printf("fleetpanel: mirror nodes: %v", err)
			}
		}
		return nil
	}
	fetchFiles := func(ctx context.Context) error {
		list, err := client.FetchFiles(ctx)
		if err != nil {
			return err
		}
		files.Replace(list)
		if mirror != nil {
			if err := mirror.SaveFiles(ctx, list); err != nil {
				log.Printf("fleetpanel: mirror files: %v", err)
			}
		}
		return nil
	}

	nodePoller := poller.New("nodes", fetchNodes, cfg.Backend.NodePollInterval, cfg.Backend.Timeout)
	filePoller := poller.New("files", fetchFiles, cfg.Backend.FilePollInterval, cfg.Backend.Timeout)
	nodePoller.Start()
	defer nodePoller.Stop()
	filePoller.Start()
	defer filePoller.Stop()

	// Command event export
	emitter := events.NewEmitter(&cfg.Events)
	defer emitter.Close()

	// Dispatcher
	publicBase := cfg.Web.PublicURL
	if publicBase == "" {
		publicBase = cfg.Backend.BaseURL
	}
	dispatcher := dispatch.New(dispatch.Config{
		Nodes:        nodes,
		Backend:      client,
		Recorder:     db,
		Events:       emitterSink{emitter: emitter},
		PublicBase:   publicBase,
		RefreshNodes: func() { nodePoller.RefreshAfter(cfg.Backend.RefreshDelay) },
		RefreshFiles: func() { filePoller.RefreshAfter(cfg.Backend.RefreshDelay) },
	})

	// Web server
	handler := www.NewRouter(www.Deps{
		Nodes:         nodes,
		Files:         files,
		Dispatcher:    dispatcher,
		Client:        client,
		DB:            db,
		SessionSecret: cfg.Web.SessionSecret,
		RefreshFiles:  func() { filePoller.RefreshAfter(cfg.Backend.RefreshDelay) },
	})

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		log.Printf("fleetpanel: web server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("web server: %v", err)
		}
	}()

	log.Printf("fleetpanel: ready (backend %s)", cfg.Backend.BaseURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Printf("fleetpanel: shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("fleetpanel: web shutdown: %v", err)
	}
}
