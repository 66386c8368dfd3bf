package documents

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resumevault-backend/internal/shared/server/middleware"
	"resumevault-backend/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := NewService(NewMemoryRepo(), local.New(t.TempDir()))
	handler := NewHandler(svc)

	r := gin.New()
	r.Use(middleware.Auth())
	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)
	return r
}

func multipartUpload(t *testing.T, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + fileName + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, r *gin.Engine, guestID, fileName, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, formContentType := multipartUpload(t, fileName, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("X-Guest-Id", guestID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, body)
	}
	return resp.Error.Code
}

func TestUploadEndToEnd(t *testing.T) {
	r := newTestRouter(t)
	data := buildDOCX(t, "Jane Doe", "Software Engineer")

	w := doUpload(t, r, "g1", "jane_doe.docx", mimeDOCX, data)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}

	var res IngestResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Title != "Jane Doe" {
		t.Errorf("title = %q", res.Title)
	}

	// The text endpoint serves the full extracted text back to the owner.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+res.ID+"/text", nil)
	req.Header.Set("X-Guest-Id", "g1")
	tw := httptest.NewRecorder()
	r.ServeHTTP(tw, req)
	if tw.Code != http.StatusOK {
		t.Fatalf("text status = %d (%s)", tw.Code, tw.Body.String())
	}
	var text documentText
	if err := json.Unmarshal(tw.Body.Bytes(), &text); err != nil {
		t.Fatalf("decode text: %v", err)
	}
	if text.Text != "Jane Doe\nSoftware Engineer" {
		t.Errorf("text = %q", text.Text)
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	r := newTestRouter(t)
	w := doUpload(t, r, "g1", "resume.docx", mimeDOCX, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if code := errorCode(t, w.Body.Bytes()); code != "VALIDATION_EMPTY" {
		t.Errorf("code = %q", code)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	r := newTestRouter(t)
	w := doUpload(t, r, "g1", "resume.txt", "text/plain", []byte("plain text"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if code := errorCode(t, w.Body.Bytes()); code != "VALIDATION_TYPE" {
		t.Errorf("code = %q", code)
	}
}

func TestUploadReportsMalformedPayload(t *testing.T) {
	r := newTestRouter(t)
	w := doUpload(t, r, "g1", "resume.docx", mimeDOCX, []byte("PK\x03\x04 not a zip"))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if code := errorCode(t, w.Body.Bytes()); code != "EXTRACTION_MALFORMED" {
		t.Errorf("code = %q", code)
	}
}

func TestDocumentsAreScopedToOwner(t *testing.T) {
	r := newTestRouter(t)
	data := buildDOCX(t, "Jane Doe")

	w := doUpload(t, r, "owner", "resume.docx", mimeDOCX, data)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", w.Code)
	}
	var res IngestResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Another identity sees a plain 404, both on read and delete.
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/v1/documents/"+res.ID, nil)
		req.Header.Set("X-Guest-Id", "intruder")
		iw := httptest.NewRecorder()
		r.ServeHTTP(iw, req)
		if iw.Code != http.StatusNotFound {
			t.Errorf("%s as non-owner: status = %d", method, iw.Code)
		}
	}

	// The owner can still delete it.
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+res.ID, nil)
	req.Header.Set("X-Guest-Id", "owner")
	dw := httptest.NewRecorder()
	r.ServeHTTP(dw, req)
	if dw.Code != http.StatusNoContent {
		t.Errorf("owner delete: status = %d", dw.Code)
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	r := newTestRouter(t)

	for _, name := range []string{"first.docx", "second.docx"} {
		w := doUpload(t, r, "g1", name, mimeDOCX, buildDOCX(t, "Jane Doe"))
		if w.Code != http.StatusCreated {
			t.Fatalf("upload %s: status = %d", name, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("X-Guest-Id", "g1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d (%s)", w.Code, w.Body.String())
	}

	var resp struct {
		Items []documentSummary `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(resp.Items))
	}
}
