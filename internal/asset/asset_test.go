package asset

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="field.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/assets", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newStore(t *testing.T, maxWidth int) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), maxWidth)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestUploadScalesAndServes(t *testing.T) {
	store := newStore(t, 400)
	h := NewHandler(store)

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "image/png", pngBytes(t, 800, 200)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var a Asset
	if err := json.NewDecoder(rec.Body).Decode(&a); err != nil {
		t.Fatal(err)
	}
	if a.Width != 400 || a.Height != 100 || a.Name != "field.png" {
		t.Fatalf("asset = %+v", a)
	}

	img, err := store.Open(a.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 100 {
		t.Errorf("stored bounds = %v", b)
	}

	rec = httptest.NewRecorder()
	h.Serve().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, a.URL, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("serve status = %d", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc == "" {
		t.Error("missing Cache-Control")
	}
	if _, err := png.Decode(rec.Body); err != nil {
		t.Errorf("served file is not a PNG: %v", err)
	}
}

func TestSmallImageKeepsSize(t *testing.T) {
	store := newStore(t, 1600)
	img, _ := png.Decode(bytes.NewReader(pngBytes(t, 80, 40)))
	a, err := store.Save(img)
	if err != nil {
		t.Fatal(err)
	}
	if a.Width != 80 || a.Height != 40 {
		t.Errorf("asset = %+v", a)
	}
}

func TestUploadRejects(t *testing.T) {
	h := NewHandler(newStore(t, 0))

	tests := []struct {
		name        string
		contentType string
		data        []byte
	}{
		{"gif", "image/gif", []byte("GIF89a")},
		{"not an image", "image/png", []byte("hello")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Upload(rec, uploadRequest(t, tt.contentType, tt.data))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d", rec.Code)
			}
		})
	}
}

func TestOpenAndDeleteUnknown(t *testing.T) {
	store := newStore(t, 0)
	for _, id := range []string{"../secret", "drw_01h455vb4pex5vsknk084sn02q", "asset_01h455vb4pex5vsknk084sn02q"} {
		if _, err := store.Open(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Open(%q) = %v", id, err)
		}
		if err := store.Delete(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete(%q) = %v", id, err)
		}
	}

	img, _ := png.Decode(bytes.NewReader(pngBytes(t, 4, 4)))
	a, err := store.Save(img)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open after delete = %v", err)
	}
}
