package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"retail-dashboard/internal/services"
)

const uploadCSV = `Order Date,Region,Category,Product,Sales,Profit
2023-03-01,North,Furniture,Shelf,250,25
2023-03-02,North,Technology,Tablet,600,-60
`

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("dataset", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, writer.FormDataContentType()
}

func TestUploadHandlers_HandleUpload(t *testing.T) {
	analytics := services.NewAnalytics()
	h := NewUploadHandlers(analytics, testLogger(), 32<<20)

	body, contentType := multipartBody(t, "sales.csv", uploadCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleUpload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var envelope successEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if !envelope.Success {
		t.Error("upload should report success")
	}
	if !analytics.HasData() {
		t.Error("dataset should be installed after upload")
	}
}

func TestUploadHandlers_HandleUpload_BrowserRedirect(t *testing.T) {
	analytics := services.NewAnalytics()
	h := NewUploadHandlers(analytics, testLogger(), 32<<20)

	body, contentType := multipartBody(t, "sales.csv", uploadCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	h.HandleUpload(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestUploadHandlers_HandleUpload_ParseFailureKeepsOldDataset(t *testing.T) {
	analytics := createTestAnalytics()
	before := analytics.Stats()["record_count"]
	h := NewUploadHandlers(analytics, testLogger(), 32<<20)

	bad := "Order Date,Region,Category,Product,Sales,Profit\nnope,North,Furniture,Shelf,250,25\n"
	body, contentType := multipartBody(t, "sales.csv", bad)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleUpload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if analytics.Stats()["record_count"] != before {
		t.Error("failed upload must not touch the installed dataset")
	}
}

func TestUploadHandlers_HandleUpload_MissingFile(t *testing.T) {
	h := NewUploadHandlers(services.NewAnalytics(), testLogger(), 32<<20)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	h.HandleUpload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUploadHandlers_HandleUpload_UnsupportedType(t *testing.T) {
	h := NewUploadHandlers(services.NewAnalytics(), testLogger(), 32<<20)

	body, contentType := multipartBody(t, "sales.txt", "whatever")
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleUpload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
