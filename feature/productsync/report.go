package productsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"epos-sync/core/reconcile"
	"epos-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// RunReport summarises one sync run.
type RunReport struct {
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	DurationMS      int64     `json:"duration_ms"`
	DryRun          bool      `json:"dry_run"`
	ContinueOnError bool      `json:"continue_on_error"`
	Status          string    `json:"status"`
	Error           string    `json:"error,omitempty"`

	SourceProducts      int                   `json:"source_products"`
	DestinationProducts int                   `json:"destination_products"`
	Plan                reconcile.PlanSummary `json:"plan"`
	Result              reconcile.ApplyResult `json:"result"`
	Brands              BrandStats            `json:"brands"`

	FailedSKUs               []string `json:"failed_skus,omitempty"`
	DuplicateSourceSKUs      []string `json:"duplicate_source_skus,omitempty"`
	DuplicateDestinationSKUs []string `json:"duplicate_destination_skus,omitempty"`
}

func newRunReport(runID string, opts reconcile.ReconcileOptions, started time.Time) *RunReport {
	return &RunReport{
		RunID:           runID,
		StartedAt:       started,
		DryRun:          opts.DryRun,
		ContinueOnError: opts.ContinueOnError,
	}
}

// finish records the outcome of the run.
func (r *RunReport) finish(finished time.Time, err error) {
	r.FinishedAt = finished
	r.DurationMS = finished.Sub(r.StartedAt).Milliseconds()
	r.FailedSKUs = r.Result.FailedKeys()

	switch {
	case err != nil:
		r.Status = StatusFailed
		r.Error = err.Error()
	case len(r.FailedSKUs) > 0:
		r.Status = StatusFailed
		r.Error = fmt.Sprintf("%d writes failed", len(r.FailedSKUs))
	default:
		r.Status = StatusSucceeded
	}
}

// Failed reports whether the run failed or left failed writes behind.
func (r *RunReport) Failed() bool {
	return r.Status == StatusFailed
}

// Archive stores run reports in object storage.
type Archive struct {
	client storage.Client
	bucket string
}

// NewArchive creates a report archive in bucket.
func NewArchive(client storage.Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// ObjectName returns the object key of a report, partitioned by start date.
func ObjectName(r *RunReport) string {
	return fmt.Sprintf("reports/sync/%s/%s.json", r.StartedAt.UTC().Format("2006/01/02"), r.RunID)
}

// Put uploads r and returns its object key.
func (a *Archive) Put(ctx context.Context, r *RunReport) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run report: %w", err)
	}

	name := ObjectName(r)
	_, err = a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload run report %s: %w", name, err)
	}
	return name, nil
}

// Get downloads the report stored under name.
func (a *Archive) Get(ctx context.Context, name string) (*RunReport, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get run report %s: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read run report %s: %w", name, err)
	}

	var r RunReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse run report %s: %w", name, err)
	}
	return &r, nil
}
