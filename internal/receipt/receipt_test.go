package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestExt(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{"pago.JPG", "jpg", false},
		{"pago.jpeg", "jpeg", false},
		{"scan.pdf", "pdf", false},
		{"foto.png", "png", false},
		{"virus.exe", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := Ext(tt.filename)
		if (err != nil) != tt.wantErr {
			t.Errorf("Ext(%q) err = %v, wantErr %v", tt.filename, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("Ext(%q) err = %v, want ErrUnsupportedType", tt.filename, err)
		}
		if got != tt.want {
			t.Errorf("Ext(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name("0007", 2); got != "PED-0007-SOP2" {
		t.Errorf("got %q", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ref  string
		want Kind
	}{
		{"https://i.ibb.co/x/y.png", KindRemote},
		{"http://localhost/receipts/PED-0001-SOP1.jpg", KindRemote},
		{"No", KindAbsent},
		{"Manual", KindAbsent},
		{"Manual/Presencial", KindAbsent},
		{"", KindAbsent},
		{"nan", KindAbsent},
		{"1AbCdEfDriveFileId", KindExpired},
	}
	for _, tt := range tests {
		if got := Classify(tt.ref); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestLocalStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "receipts")
	s, err := NewLocalStore(dir, "http://localhost:8081/receipts/")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	ref, err := s.Save(context.Background(), "PED-0001-SOP1", "png", []byte("img"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref != "http://localhost:8081/receipts/PED-0001-SOP1.png" {
		t.Errorf("ref: got %q", ref)
	}
	data, err := os.ReadFile(filepath.Join(dir, "PED-0001-SOP1.png"))
	if err != nil || string(data) != "img" {
		t.Errorf("file content: %q, %v", data, err)
	}
}

func TestLocalStore_CanceledContext(t *testing.T) {
	s := &LocalStore{Dir: t.TempDir()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Save(ctx, "x", "png", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestImgbbStore_Save(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": map[string]string{"message": "bad key"}})
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("name") != "PED-0001-SOP1" {
			t.Errorf("name field: %q", r.FormValue("name"))
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if string(data) != "img" || hdr.Filename != "PED-0001-SOP1.jpg" {
			t.Errorf("file: %q %q", data, hdr.Filename)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]string{"url": "https://i.ibb.co/abc/PED-0001-SOP1.jpg"}})
	}))
	defer srv.Close()

	s := &ImgbbStore{APIKey: "secret", Endpoint: srv.URL, Client: srv.Client()}
	ref, err := s.Save(context.Background(), "PED-0001-SOP1", "jpg", []byte("img"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref != "https://i.ibb.co/abc/PED-0001-SOP1.jpg" {
		t.Errorf("ref: got %q", ref)
	}

	s.APIKey = "wrong"
	if _, err := s.Save(context.Background(), "PED-0001-SOP1", "jpg", []byte("img")); err == nil {
		t.Error("expected error for rejected upload")
	}
}

func TestImgbbStore_NoKey(t *testing.T) {
	if _, err := NewImgbbStore("").Save(context.Background(), "n", "png", nil); err == nil {
		t.Error("expected error without api key")
	}
}
