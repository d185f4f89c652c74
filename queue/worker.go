package queue

import (
	"context"
	"log"
	"time"

	"banwbanbridge/bridgeerr"
	"banwbanbridge/config"
)

// Handler processes one job. OP implements this once per job Kind and
// dispatches internally; queue does not know what a job means.
type Handler interface {
	Handle(ctx context.Context, job Job) error
}

// Shutdown, set to true, stops every running worker and scheduler loop at
// their next poll, mirroring the teacher's package-level WorkerShutdown
// flag in workers/http.go.
var Shutdown bool

// RunWorker polls for claimable accounts and hands their oldest job to
// handler until Shutdown is set. Run several of these as goroutines
// (cmd/server wires config.Queue.Workers of them).
func RunWorker(ctx context.Context, handler Handler) {
	for !Shutdown {
		accounts, err := Accounts()
		if err != nil {
			log.Printf("queue: error listing accounts: %s", err.Error())
			time.Sleep(config.Config.Queue.PollInterval)
			continue
		}

		job, nativeAddr, ok, err := popNext(accounts)
		if err != nil {
			log.Printf("queue: error claiming next job: %s", err.Error())
			time.Sleep(config.Config.Queue.PollInterval)
			continue
		}
		if !ok {
			time.Sleep(config.Config.Queue.PollInterval)
			continue
		}

		if err := handler.Handle(ctx, *job); err != nil {
			if bridgeerr.Retryable(err) {
				log.Printf("queue: retryable error for %s job on %s: %s", job.Kind, nativeAddr, err.Error())
				if rErr := Retry(*job); rErr != nil {
					log.Printf("queue: giving up on %s job for %s: %s", job.Kind, nativeAddr, rErr.Error())
				}
			} else {
				log.Printf("queue: dropping failed %s job for %s: %s", job.Kind, nativeAddr, err.Error())
			}
		}

		if err := Release(nativeAddr); err != nil {
			log.Printf("queue: error releasing claim on %s: %s", nativeAddr, err.Error())
		}
	}
}

// RunScheduler periodically promotes due queue:delayed jobs back onto
// their account's list until Shutdown is set.
func RunScheduler(ctx context.Context) {
	for !Shutdown {
		time.Sleep(config.Config.Queue.PollInterval)

		moved, err := PromoteDue(ctx)
		if err != nil {
			log.Printf("queue: error promoting delayed jobs: %s", err.Error())
			continue
		}
		if moved > 0 {
			log.Printf("queue: promoted %d delayed job(s)", moved)
		}
	}
}
