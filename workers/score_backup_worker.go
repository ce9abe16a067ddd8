package workers

import (
	"context"
	"fmt"
	"time"

	"minesweeper-service/services"
	"minesweeper-service/utils"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// ScoreBackupWorker copies the score store to timestamped objects in R2.
type ScoreBackupWorker struct {
	store    services.ScoreStore
	objects  *utils.ObjectStore
	clock    clockwork.Clock
	interval time.Duration
}

func NewScoreBackupWorker(store services.ScoreStore, objects *utils.ObjectStore, clock clockwork.Clock, interval time.Duration) *ScoreBackupWorker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ScoreBackupWorker{
		store:    store,
		objects:  objects,
		clock:    clock,
		interval: interval,
	}
}

func (w *ScoreBackupWorker) Start(ctx context.Context) {
	log.Infof("🔁 [Backup] Starting score backups every %s", w.interval)
	go w.run(ctx)
}

func (w *ScoreBackupWorker) run(ctx context.Context) {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			if _, err := w.Backup(ctx); err != nil {
				log.Errorf("❌ [Backup] Score backup failed: %v", err)
			}
		case <-ctx.Done():
			log.Info("⏹️ [Backup] Score backups stopped")
			return
		}
	}
}

// Backup writes one snapshot and returns its key.
func (w *ScoreBackupWorker) Backup(ctx context.Context) (string, error) {
	snap, err := w.store.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read scores: %w", err)
	}

	key := BackupKey(w.clock.Now())
	if err := w.objects.PutJSON(ctx, key, snap); err != nil {
		return "", err
	}

	total := 0
	for _, entries := range snap {
		total += len(entries)
	}
	log.Infof("📦 [Backup] Wrote %d score(s) to %s", total, key)
	return key, nil
}

func BackupKey(t time.Time) string {
	return fmt.Sprintf("backups/scores-%s.json", t.UTC().Format(time.RFC3339))
}
