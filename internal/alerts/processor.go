package alerts

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/hibiken/asynq"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

// Init starts the Asynq server and initializes a shared client.
func Init() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		if host := os.Getenv("REDIS_HOST"); host != "" {
			port := os.Getenv("REDIS_PORT")
			if port == "" {
				port = "6379"
			}
			redisAddr = host + ":" + port
		} else {
			redisAddr = "127.0.0.1:6379"
		}
	}

	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPriceChanged, handlePriceChanged)
	mux.HandleFunc(TaskCertificateExpired, handleCertificateExpired)
	mux.HandleFunc(TaskListingSold, handleListingSold)
	mux.HandleFunc(TaskBundleSold, handleBundleSold)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"sales":  10,
			"market": 5,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.Printf("Asynq server stopped: %v", err)
		}
	}()

	log.Printf("Asynq initialized (addr=%s)", redisAddr)
}

// Close releases client and stops server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

// Handlers parse payloads and push them to the configured webhook.

func handlePriceChanged(_ context.Context, t *asynq.Task) error {
	var p PriceChangedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := Deliver(t.Type(), p); err != nil {
		log.Printf("[notify][ERROR] PriceChanged delivery failed: %v", err)
		return err
	}
	log.Printf("[notify] PriceChanged delivered -> cert=%d %d -> %d", p.CertID, p.OldPrice, p.NewPrice)
	return nil
}

func handleCertificateExpired(_ context.Context, t *asynq.Task) error {
	var p CertificateExpiredPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := Deliver(t.Type(), p); err != nil {
		log.Printf("[notify][ERROR] CertificateExpired delivery failed: %v", err)
		return err
	}
	log.Printf("[notify] CertificateExpired delivered -> cert=%d", p.CertID)
	return nil
}

func handleListingSold(_ context.Context, t *asynq.Task) error {
	var p ListingSoldPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := Deliver(t.Type(), p); err != nil {
		log.Printf("[notify][ERROR] ListingSold delivery failed: %v", err)
		return err
	}
	log.Printf("[notify] ListingSold delivered -> cert=%d buyer=%s", p.CertID, p.Buyer)
	return nil
}

func handleBundleSold(_ context.Context, t *asynq.Task) error {
	var p BundleSoldPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := Deliver(t.Type(), p); err != nil {
		log.Printf("[notify][ERROR] BundleSold delivery failed: %v", err)
		return err
	}
	log.Printf("[notify] BundleSold delivered -> bundle=%s buyer=%s", p.BundleID, p.Buyer)
	return nil
}
