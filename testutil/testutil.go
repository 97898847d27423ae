// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/palette/auth"
	"github.com/danielhkuo/palette/cliparse"
	"github.com/danielhkuo/palette/db"
	"github.com/danielhkuo/palette/models"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives in the test's temp dir and is removed with it.
func SetupTestDB(t *testing.T) *db.SQLStore {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "palette_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db.NewStore(conn, db.TypeSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    "file::memory:",
		DatabaseType:   db.TypeSQLite,
		AdminPassword:  "test-password",
		AdminTokenSalt: "test-admin-salt",
		AdminTokenTTL:  time.Hour,
		UploadProvider: cliparse.ProviderLocal,
		PublicBaseURL:  "http://localhost:3318",
		MaxUploadSize:  1 << 20,
		RateLimit:      0,
	}
}

// AdminToken issues a valid admin session token for cfg
func AdminToken(t *testing.T, cfg cliparse.Config) string {
	t.Helper()

	token, _, err := auth.IssueAdminToken(cfg.AdminTokenSalt, cfg.AdminTokenTTL, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue admin token: %v", err)
	}
	return token
}

// AdminHeaders returns the Authorization header for an admin request
func AdminHeaders(t *testing.T, cfg cliparse.Config) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + AdminToken(t, cfg)}
}

// CreateTestPhoto stores a photo and returns it with its assigned ID
func CreateTestPhoto(t *testing.T, store db.Store, originalID string, author models.Author) models.Photo {
	t.Helper()

	p, err := store.InsertPhoto(context.Background(), models.Photo{
		URL:        "https://img.example.com/" + originalID + "_" + string(author) + ".jpg",
		Author:     author,
		OriginalID: originalID,
		Title:      "Test " + originalID,
	})
	if err != nil {
		t.Fatalf("Failed to create test photo: %v", err)
	}
	return p
}

// CreateTestPair stores both renditions of a subject
func CreateTestPair(t *testing.T, store db.Store, originalID string) (a, b models.Photo) {
	t.Helper()
	return CreateTestPhoto(t, store, originalID, models.AuthorA), CreateTestPhoto(t, store, originalID, models.AuthorB)
}

// CreateTestVote stores a vote for a subject
func CreateTestVote(t *testing.T, store db.Store, originalID string, winner models.Author) models.Vote {
	t.Helper()

	v, err := store.InsertVote(context.Background(), models.Vote{
		OriginalID: originalID,
		Winner:     winner,
		Voter:      "tester",
	})
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
	return v
}

// CreateTestRating stores a rating for a photo
func CreateTestRating(t *testing.T, store db.Store, photoID string, score int) models.Rating {
	t.Helper()

	r, err := store.InsertRating(context.Background(), models.Rating{
		PhotoID: photoID,
		Score:   score,
		Voter:   "tester",
	})
	if err != nil {
		t.Fatalf("Failed to create test rating: %v", err)
	}
	return r
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeMultipartRequest creates a multipart form request.
// files maps form field to file name and contents.
func MakeMultipartRequest(t *testing.T, path string, fields map[string]string, files map[string][2]string, headers map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write form field: %v", err)
		}
	}
	for field, file := range files {
		part, err := writer.CreateFormFile(field, file[0])
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		part.Write([]byte(file[1]))
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
