package local

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"
)

func TestPutOpenDeleteRoundtrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.Put(ctx, "ns/123_resume.pdf", "application/pdf", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != int64(len("payload")) {
		t.Fatalf("written = %d", n)
	}

	rc, err := store.Open(ctx, "ns/123_resume.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != "payload" {
		t.Fatalf("body = %q", body)
	}

	if err := store.Delete(ctx, "ns/123_resume.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, "ns/123_resume.pdf"); err == nil {
		t.Fatal("expected Open to fail after delete")
	}

	// Deleting again is not an error; delete is used for best-effort cleanup.
	if err := store.Delete(ctx, "ns/123_resume.pdf"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestListByPrefix(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"a/1_x.pdf", "a/2_y.pdf", "b/3_z.pdf"} {
		if _, err := store.Put(ctx, key, "application/pdf", strings.NewReader("data")); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}

	keys, err := store.List(ctx, "a/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a/1_x.pdf" || keys[1] != "a/2_y.pdf" {
		t.Fatalf("keys = %v", keys)
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %v", all)
	}
}

func TestRejectsHostileKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../escape", "/abs/path", "a/../../b"} {
		if _, err := store.Put(ctx, key, "application/pdf", strings.NewReader("x")); err == nil {
			t.Fatalf("Put(%q) should fail", key)
		}
		if _, err := store.Open(ctx, key); err == nil {
			t.Fatalf("Open(%q) should fail", key)
		}
	}
}
