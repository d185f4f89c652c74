package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"banwbanbridge/api"
	"banwbanbridge/banrpc"
	"banwbanbridge/blacklist"
	"banwbanbridge/claim"
	"banwbanbridge/config"
	"banwbanbridge/evmrpc"
	"banwbanbridge/kv"
	"banwbanbridge/ops"
	"banwbanbridge/queue"
	"banwbanbridge/scanner"
	"banwbanbridge/store"
)

func main() {
	log.Print("Starting BAN/wBAN bridge")

	f, err := os.OpenFile(fmt.Sprintf("logs/log_%s.txt", time.Now().Format("2006-01-02")), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file for writing: %v", err)
	}
	defer f.Close()

	log.SetOutput(f)

	config.Init()
	// this is for debug, makes output contain sensitive info
	fmt.Printf("%+v", config.Config)

	// connect to Redis, without persistence do not continue
	kv.Init()

	ledger := store.New()
	chain := evmrpc.New()
	native := banrpc.GetClient()
	wallets := blacklist.New()
	claims := claim.New(ledger, chain, wallets)
	processor := ops.New(ledger, claims, native, chain)

	ctx := context.Background()

	// one worker goroutine per configured slot, plus one delayed-job
	// scheduler and two chain scanners (EVM and native), same
	// "go workers.Worker_X()" fan-out
	// shape the teacher's cmd/server/main.go uses.
	for i := 0; i < config.Config.Queue.Workers; i++ {
		go queue.RunWorker(ctx, processor)
	}
	go queue.RunScheduler(ctx)

	sc := scanner.New(ledger, chain)
	go sc.Run(ctx)

	nativeScanner := scanner.NewNative(ledger, native)
	go nativeScanner.Run(ctx)

	server := api.New(ledger, claims, chain)
	if err := server.Run(); err != nil {
		log.Fatalf("api server stopped: %v", err)
	}
}
