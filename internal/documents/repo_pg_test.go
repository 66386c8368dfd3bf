package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	doc := Document{
		ID:            "doc-1",
		UserID:        "user-1",
		Title:         "John Doe Resume 2024",
		StorageKey:    "abc123/1700000000000000000_resume.pdf",
		ExtractedText: "John Doe\nEngineer",
		SizeBytes:     1024,
		Format:        "pdf",
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.UserID,
			doc.Title,
			doc.StorageKey,
			doc.ExtractedText,
			doc.SizeBytes,
			doc.Format,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, user_id, title, storage_key").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "title", "storage_key", "extracted_text",
			"size_bytes", "format", "created_at", "updated_at",
		}))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "storage_key", "extracted_text",
		"size_bytes", "format", "created_at", "updated_at",
	}).
		AddRow("doc-2", "user-1", "Newer", "k2", "text2", int64(20), "docx", now, now).
		AddRow("doc-1", "user-1", "Older", "k1", "text1", int64(10), "pdf", now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery("SELECT id, user_id, title, storage_key").
		WithArgs("user-1", 20, 0).
		WillReturnRows(rows)

	docs, err := repo.ListByUser(context.Background(), "user-1", 20, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "doc-2" || docs[1].ID != "doc-1" {
		t.Fatalf("unexpected docs: %+v", docs)
	}
}

func TestPGRepoListStorageKeys(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT storage_key FROM documents").
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}).AddRow("k1").AddRow("k2"))

	keys, err := repo.ListStorageKeys(context.Background())
	if err != nil {
		t.Fatalf("ListStorageKeys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys = %v", keys)
	}
	if _, ok := keys["k1"]; !ok {
		t.Fatalf("missing k1")
	}
}
