package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/vocdoni/arbo/memdb"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/zechproject/zech-core/config"
	"github.com/zechproject/zech-core/log"
	"github.com/zechproject/zech-core/prover"
	"github.com/zechproject/zech-core/service"
	"github.com/zechproject/zech-core/state"
)

func main() {
	cfg := config.DefaultConfig()
	flag.StringVar(&cfg.DataDir, "dataDir", cfg.DataDir, "directory for the account database and proving keys")
	flag.StringVar(&cfg.ListenHost, "host", cfg.ListenHost, "HTTP API listen host")
	flag.IntVar(&cfg.ListenPort, "port", cfg.ListenPort, "HTTP API listen port")
	flag.StringVar(&cfg.LogLevel, "logLevel", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Uint64Var(&cfg.EpochLength, "epochLength", cfg.EpochLength, "number of blocks per epoch")
	flag.Uint64Var(&cfg.BruteBound, "bruteBound", cfg.BruteBound, "discrete-log search bound advertised to clients for balance decryption")
	blockInterval := flag.Duration("blockInterval", time.Second*2, "wall-clock duration of a block")
	memoryDB := flag.Bool("memdb", false, "keep the account database in memory")
	flag.Parse()

	log.Init(cfg.LogLevel, "stdout", nil)

	var database db.Database
	if *memoryDB {
		database = memdb.New()
	} else {
		var err error
		database, err = metadb.New(db.TypePebble, cfg.DataDir)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
	}

	st := state.New(database)
	st.SetEpochLength(cfg.EpochLength)

	log.Infow("compiling transfer circuits", "dataDir", cfg.DataDir)
	prv, err := prover.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to set up prover: %v", err)
	}

	ctx := context.Background()
	clock := service.NewEpochClock(st, *blockInterval, 1)
	if err := clock.Start(ctx); err != nil {
		log.Fatal(err)
	}
	apiService := service.NewAPI(st, prv, cfg.ListenHost, cfg.ListenPort, cfg.BruteBound)
	if err := apiService.Start(ctx); err != nil {
		log.Fatal(err)
	}
	host, port := apiService.HostPort()
	log.Infow("node ready", "host", host, "port", port, "epochLength", cfg.EpochLength)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")
	apiService.Stop()
	clock.Stop()
	if err := st.Close(); err != nil {
		log.Warnw("failed to close state", "error", err)
	}
}
