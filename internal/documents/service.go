package documents

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"resumevault-backend/internal/extract"
	"resumevault-backend/internal/shared/metrics"
	"resumevault-backend/internal/shared/storage/object"
	"resumevault-backend/internal/shared/telemetry"
	"resumevault-backend/internal/shared/util"
	"resumevault-backend/internal/sniff"
	"resumevault-backend/internal/validate"
)

const (
	previewRunes = 500

	// defaultTitle is used when nothing usable survives filename cleanup.
	defaultTitle = "Untitled Resume"
)

// Service orchestrates the ingestion pipeline: validate, upload, extract,
// persist. The blob write happens before extraction, so both extraction and
// persistence failures trigger a compensating blob delete.
type Service struct {
	Repo  Repo
	Store object.BlobStore

	// now is swappable in tests.
	now func() time.Time
}

func NewService(repo Repo, store object.BlobStore) *Service {
	return &Service{Repo: repo, Store: store, now: time.Now}
}

// IngestInput is a client upload plus the identity it belongs to. Title is
// optional; when empty it is derived from the filename.
type IngestInput struct {
	UserID      string
	FileName    string
	ContentType string
	Title       string
	Data        []byte
}

// IngestResult is the outcome of a successful ingestion.
type IngestResult struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Format      string    `json:"format"`
	SizeBytes   int64     `json:"sizeBytes"`
	Pages       int       `json:"pages,omitempty"`
	Paragraphs  int       `json:"paragraphs,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
	TextPreview string    `json:"textPreview"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Ingest runs the full pipeline for one upload. Any error it returns is
// either a *validate.Error, a *extract.Error, or one of this package's
// sentinels; by the time an error is returned no orphaned blob remains
// unless the compensating delete itself failed (which is logged and counted
// but not surfaced).
func (s *Service) Ingest(ctx context.Context, in IngestInput) (IngestResult, error) {
	metrics.IncIngestStarted()
	start := s.now()

	result, err := s.ingest(ctx, in)

	metrics.ObserveIngestDurationMs(float64(s.now().Sub(start).Milliseconds()))
	if err != nil {
		metrics.IncIngestFailed()
	} else {
		metrics.IncIngestSucceeded()
	}
	return result, err
}

func (s *Service) ingest(ctx context.Context, in IngestInput) (IngestResult, error) {
	logFields := map[string]any{"user_id": in.UserID, "file_name": in.FileName}

	telemetry.Info("ingest.validating", logFields)
	format, err := validate.UploadCandidate(validate.Candidate{
		Size:        int64(len(in.Data)),
		ContentType: in.ContentType,
		FileName:    in.FileName,
	})
	if err != nil {
		return IngestResult{}, err
	}

	// Cheap content check before any storage work: if the magic number
	// disagrees with the declared type, the extractor would reject it
	// anyway, but catching it here avoids writing a blob just to roll it
	// back.
	if detected := sniff.Detect(in.Data); detected != format {
		return IngestResult{}, &extract.Error{
			Kind:    extract.KindMalformed,
			Message: "The file content does not match its declared type. It may be corrupted or mislabeled.",
		}
	}

	key := s.storageKey(in.UserID, in.FileName)
	logFields["storage_key"] = key

	telemetry.Info("ingest.uploading", logFields)
	size, err := s.Store.Put(ctx, key, in.ContentType, bytes.NewReader(in.Data))
	if err != nil {
		telemetry.Error("ingest.upload_failed", withError(logFields, err))
		return IngestResult{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	telemetry.Info("ingest.extracting", logFields)
	extracted, err := extract.Extract(format, in.Data)
	if err != nil {
		s.rollback(ctx, key, logFields)
		return IngestResult{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = deriveTitle(in.FileName)
	}

	doc := Document{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		Title:         title,
		StorageKey:    key,
		ExtractedText: extracted.Text,
		SizeBytes:     size,
		Format:        string(format),
		CreatedAt:     s.now().UTC(),
	}

	telemetry.Info("ingest.persisting", logFields)
	if err := s.Repo.Create(ctx, doc); err != nil {
		telemetry.Error("ingest.persist_failed", withError(logFields, err))
		s.rollback(ctx, key, logFields)
		return IngestResult{}, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	telemetry.Info("ingest.done", withField(logFields, "document_id", doc.ID))
	return IngestResult{
		ID:          doc.ID,
		Title:       doc.Title,
		Format:      doc.Format,
		SizeBytes:   doc.SizeBytes,
		Pages:       extracted.Pages,
		Paragraphs:  extracted.Paragraphs,
		Warnings:    extracted.Warnings,
		TextPreview: preview(extracted.Text),
		CreatedAt:   doc.CreatedAt,
	}, nil
}

// rollback is the compensating delete for a blob whose document never made
// it into the database. Failures are logged and counted; the reconciler
// sweeps up anything missed here.
func (s *Service) rollback(ctx context.Context, key string, fields map[string]any) {
	metrics.IncIngestRollback()
	if err := s.Store.Delete(ctx, key); err != nil {
		telemetry.Error("ingest.rollback_failed", withError(fields, err))
		return
	}
	telemetry.Info("ingest.rollback", fields)
}

// Get returns a document owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if doc.UserID != userID {
		return Document{}, ErrUnauthorized
	}
	return doc, nil
}

// List returns the caller's documents, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes a document the caller owns. The database row is the source
// of truth and goes first; the blob delete afterwards is best effort, with
// the reconciler as the backstop.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.UserID != userID {
		return ErrUnauthorized
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.IncDocumentDeleted()
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Warn("document.blob_delete_failed", map[string]any{
			"document_id": id,
			"storage_key": doc.StorageKey,
			"error":       err.Error(),
		})
	}
	return nil
}

// FindOrphans returns blob keys that no document row references, excluding
// blobs younger than grace. Keys embed their creation time; the grace window
// protects an ingestion that is mid-flight between Put and Create.
func (s *Service) FindOrphans(ctx context.Context, grace time.Duration) ([]string, error) {
	referenced, err := s.Repo.ListStorageKeys(ctx)
	if err != nil {
		return nil, err
	}
	keys, err := s.Store.List(ctx, "")
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-grace)
	var orphans []string
	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			continue
		}
		if createdAt, ok := keyTimestamp(key); ok && createdAt.After(cutoff) {
			continue
		}
		orphans = append(orphans, key)
	}
	return orphans, nil
}

// ReconcileOrphans deletes every orphaned blob FindOrphans reports.
func (s *Service) ReconcileOrphans(ctx context.Context, grace time.Duration) (int, error) {
	orphans, err := s.FindOrphans(ctx, grace)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, key := range orphans {
		if err := s.Store.Delete(ctx, key); err != nil {
			telemetry.Warn("reconcile.delete_failed", map[string]any{"storage_key": key, "error": err.Error()})
			continue
		}
		telemetry.Info("reconcile.deleted_orphan", map[string]any{"storage_key": key})
		deleted++
	}
	return deleted, nil
}

// storageKey builds "<user-hash>/<unix-nanos>_<sanitized-name>". The user
// hash namespaces blobs per owner; the timestamp makes keys unique and lets
// the reconciler age them.
func (s *Service) storageKey(userID, fileName string) string {
	return util.HashUserKey(userID) + "/" +
		strconv.FormatInt(s.now().UTC().UnixNano(), 10) + "_" +
		util.SanitizeFileName(fileName)
}

// keyTimestamp parses the creation time embedded in a storage key.
func keyTimestamp(key string) (time.Time, bool) {
	_, rest, ok := strings.Cut(key, "/")
	if !ok {
		return time.Time{}, false
	}
	nanos, _, ok := strings.Cut(rest, "_")
	if !ok {
		return time.Time{}, false
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil || n <= 0 {
		return time.Time{}, false
	}
	return time.Unix(0, n), true
}

// deriveTitle turns a filename into a display title: extension stripped,
// separators spaced out, words title-cased.
func deriveTitle(fileName string) string {
	base := strings.TrimSpace(fileName)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	base = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, base)

	words := strings.Fields(base)
	if len(words) == 0 {
		return defaultTitle
	}
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// preview returns the first 500 runes of text, with an ellipsis when
// truncated.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}

func withError(fields map[string]any, err error) map[string]any {
	return withField(fields, "error", err.Error())
}

func withField(fields map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[key] = value
	return out
}
