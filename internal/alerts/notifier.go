package alerts

import (
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// QueueNotifier enqueues exchange events as asynq tasks. Enqueue failures
// are logged and swallowed: notifications are best-effort and must never
// fail a committed operation.
type QueueNotifier struct{}

func enqueue(taskType string, payload any, queue string) {
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(taskType, b)
	if _, err := ensureClient().Enqueue(task, asynq.Queue(queue)); err != nil {
		log.Printf("[notify][ERROR] enqueue %s failed: %v", taskType, err)
	}
}

func (QueueNotifier) PriceChanged(certID uint64, oldPrice, newPrice int64) {
	enqueue(TaskPriceChanged, PriceChangedPayload{
		CertID: certID, OldPrice: oldPrice, NewPrice: newPrice, SentAt: time.Now(),
	}, "market")
}

func (QueueNotifier) CertificateExpired(certID uint64) {
	enqueue(TaskCertificateExpired, CertificateExpiredPayload{
		CertID: certID, SentAt: time.Now(),
	}, "market")
}

func (QueueNotifier) ListingSold(certID uint64, seller, buyer string, price int64) {
	enqueue(TaskListingSold, ListingSoldPayload{
		CertID: certID, Seller: seller, Buyer: buyer, Price: price, SentAt: time.Now(),
	}, "sales")
}

func (QueueNotifier) BundleSold(bundleID, seller, buyer string, price int64) {
	enqueue(TaskBundleSold, BundleSoldPayload{
		BundleID: bundleID, Seller: seller, Buyer: buyer, Price: price, SentAt: time.Now(),
	}, "sales")
}

// LogNotifier writes events straight to the log; used when Redis is not
// configured and in tests.
type LogNotifier struct{}

func (LogNotifier) PriceChanged(certID uint64, oldPrice, newPrice int64) {
	log.Printf("[notify] PriceChanged cert=%d %d -> %d", certID, oldPrice, newPrice)
}

func (LogNotifier) CertificateExpired(certID uint64) {
	log.Printf("[notify] CertificateExpired cert=%d", certID)
}

func (LogNotifier) ListingSold(certID uint64, seller, buyer string, price int64) {
	log.Printf("[notify] ListingSold cert=%d seller=%s buyer=%s price=%d", certID, seller, buyer, price)
}

func (LogNotifier) BundleSold(bundleID, seller, buyer string, price int64) {
	log.Printf("[notify] BundleSold bundle=%s seller=%s buyer=%s price=%d", bundleID, seller, buyer, price)
}
