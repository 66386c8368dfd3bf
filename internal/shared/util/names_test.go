package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"resume.pdf", "resume.pdf"},
		{"john doe resume.pdf", "john_doe_resume.pdf"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"über résumé.docx", "_ber_r_sum_.docx"},
		{"file\\with\\backslashes.pdf", "file_with_backslashes.pdf"},
		{"  spaced.pdf  ", "spaced.pdf"},
		{"", "file"},
		{"...", "file"},
		{"weird<>|name?.docx", "weird___name_.docx"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashUserKeyStableAndSafe(t *testing.T) {
	a := HashUserKey("guest:abc/def")
	b := HashUserKey("guest:abc/def")
	if a != b {
		t.Fatalf("hash not stable: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("unexpected hash length %d", len(a))
	}
	if strings.ContainsAny(a, "/:\\") {
		t.Fatalf("hash contains separators: %q", a)
	}
	if HashUserKey("user-a") == HashUserKey("user-b") {
		t.Fatal("distinct users must map to distinct namespaces")
	}
}
