package reconciliation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recon-manager/core/matching"
	"recon-manager/core/storage"
	"recon-manager/feature/reconciliation/models"

	"github.com/minio/minio-go/v7"
)

// Archiver writes run result snapshots to object storage so a run's full
// output survives break lifecycle changes.
type Archiver struct {
	client storage.Client
	bucket string
}

// NewArchiver creates a new snapshot archiver.
func NewArchiver(client storage.Client, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// runSnapshot is the archived JSON document.
type runSnapshot struct {
	Run        *models.Run              `json:"run"`
	Definition string                   `json:"definition"`
	ArchivedAt time.Time                `json:"archivedAt"`
	Result     *matching.MatchingResult `json:"result"`
}

// ArchiveRun uploads the run snapshot and returns its object key.
func (a *Archiver) ArchiveRun(ctx context.Context, def *models.Definition, run *models.Run, result *matching.MatchingResult) (string, error) {
	snapshot := runSnapshot{
		Run:        run,
		Definition: def.Code,
		ArchivedAt: time.Now(),
		Result:     result,
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("encoding run snapshot: %w", err)
	}

	objectName := fmt.Sprintf("runs/%s/%s.json", def.Code, run.CorrelationID)
	_, err = a.client.PutObject(ctx, a.bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", fmt.Errorf("uploading run snapshot: %w", err)
	}

	return objectName, nil
}
