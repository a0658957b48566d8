package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/gif"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"

	pixelshuffle "github.com/hellolucient/pixel-shuffle"
	"github.com/hellolucient/pixel-shuffle/imageutil"
)

func newTestServer() *Server {
	return New(WithRandom(testRand()))
}

// redBlockImage is the canonical scenario image: a 50x50 background
// canvas with one 25x25 red block at the origin.
func redBlockImage() *imageutil.RGBAImage {
	img := imageutil.CreateSolidImage(50, 50, imageutil.RGB{R: 41, G: 41, B: 41})
	for y := 0; y < 25; y++ {
		for x := 0; x < 25; x++ {
			img.SetRGB(x, y, imageutil.RGB{R: 255, G: 0, B: 0})
		}
	}
	return img
}

func multipartImage(t *testing.T, name string, img image.Image, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if img != nil {
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(part, img); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, w.FormDataContentType()
}

func upload(t *testing.T, srv *Server, name string, img image.Image, fields map[string]string) imageSummary {
	t.Helper()
	body, contentType := multipartImage(t, name, img, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/images", body)
	req.Header.Set(fiber.HeaderContentType, contentType)
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("Upload request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var summary imageSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("Decoding summary failed: %v", err)
	}
	return summary
}

func do(t *testing.T, srv *Server, method, path string) *http.Response {
	t.Helper()
	resp, err := srv.App().Test(httptest.NewRequest(method, path, nil), -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func decodeSummary(t *testing.T, resp *http.Response) imageSummary {
	t.Helper()
	defer resp.Body.Close()
	var summary imageSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("Decoding summary failed: %v", err)
	}
	return summary
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer()
	resp := do(t, srv, http.MethodGet, "/")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, fiber.MIMETextHTML) {
		t.Errorf("Expected text/html, got %q", ct)
	}
	var page bytes.Buffer
	if _, err := page.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Pixel Shuffle", "pixel-grid", "pixelate-in", "shudder"} {
		if !strings.Contains(page.String(), want) {
			t.Errorf("Page is missing %q", want)
		}
	}
}

func TestUploadCreatesSession(t *testing.T) {
	srv := newTestServer()
	summary := upload(t, srv, "red.png", redBlockImage(), nil)

	want := imageSummary{
		ID:        summary.ID,
		Name:      "red.png",
		Width:     50,
		Height:    50,
		BlockSize: 25,
		Cols:      2,
		Rows:      2,
		Cells:     1,
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}
	if summary.ID == "" {
		t.Error("Expected a generated ID")
	}
}

func TestUploadCustomBlockSize(t *testing.T) {
	srv := newTestServer()
	summary := upload(t, srv, "red.png", redBlockImage(), map[string]string{"block_size": "10"})

	if summary.BlockSize != 10 || summary.Cols != 5 || summary.Rows != 5 {
		t.Errorf("Expected block 10 over 5x5, got block %d over %dx%d",
			summary.BlockSize, summary.Cols, summary.Rows)
	}
}

func TestUploadMaxDimCapsImage(t *testing.T) {
	srv := newTestServer()
	wide := imageutil.CreateSolidImage(100, 50, imageutil.RGB{R: 200, G: 10, B: 10})
	summary := upload(t, srv, "wide.png", wide, map[string]string{"max_dim": "50", "block_size": "5"})

	if summary.Width != 50 || summary.Height != 25 {
		t.Errorf("Expected 50x25 after cap, got %dx%d", summary.Width, summary.Height)
	}
}

func TestUploadValidation(t *testing.T) {
	tests := []struct {
		name   string
		img    image.Image
		fields map[string]string
	}{
		{"missing file", nil, map[string]string{"block_size": "25"}},
		{"zero block size", redBlockImage(), map[string]string{"block_size": "0"}},
		{"non-numeric block size", redBlockImage(), map[string]string{"block_size": "abc"}},
		{"negative max dim", redBlockImage(), map[string]string{"max_dim": "-1"}},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartImage(t, "red.png", tt.img, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/api/images", body)
			req.Header.Set(fiber.HeaderContentType, contentType)
			resp, err := srv.App().Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestUploadRejectsCorruptImage(t *testing.T) {
	srv := newTestServer()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "junk.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("not an image at all")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/images", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestListImages(t *testing.T) {
	srv := newTestServer()
	upload(t, srv, "a.png", redBlockImage(), nil)
	upload(t, srv, "b.png", redBlockImage(), nil)

	resp := do(t, srv, http.MethodGet, "/api/images")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var listed []imageSummary
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(listed))
	}
}

func TestBuildShakeFrameFlow(t *testing.T) {
	srv := newTestServer()
	summary := upload(t, srv, "red.png", redBlockImage(), nil)

	built := decodeSummary(t, do(t, srv, http.MethodPost, "/api/images/"+summary.ID+"/build"))
	if !built.Built || built.Shakes != 0 {
		t.Errorf("Expected built/0 shakes, got %v/%d", built.Built, built.Shakes)
	}

	for want := 1; want <= 2; want++ {
		shaken := decodeSummary(t, do(t, srv, http.MethodPost, "/api/images/"+summary.ID+"/shake"))
		if shaken.Shakes != want {
			t.Errorf("Expected %d shakes, got %d", want, shaken.Shakes)
		}
		if shaken.Cells != 1 {
			t.Errorf("Shake changed the cell count: %d", shaken.Cells)
		}
	}

	resp := do(t, srv, http.MethodGet, "/api/images/"+summary.ID+"/frame.png")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	frame, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Decoding frame failed: %v", err)
	}
	if frame.Bounds().Dx() != 50 || frame.Bounds().Dy() != 50 {
		t.Errorf("Expected a 50x50 frame, got %dx%d", frame.Bounds().Dx(), frame.Bounds().Dy())
	}

	// Wherever the block landed, the frame holds exactly one full red
	// block on a background canvas.
	red, background := 0, 0
	decoded := imageutil.RGBAImageFromImage(frame)
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			switch decoded.GetRGB(x, y) {
			case imageutil.RGB{R: 255, G: 0, B: 0}:
				red++
			case imageutil.RGB{R: 41, G: 41, B: 41}:
				background++
			}
		}
	}
	if red != 625 || background != 2500-625 {
		t.Errorf("Expected 625 red and %d background pixels, got %d/%d", 2500-625, red, background)
	}
}

func TestShakeBeforeBuildConflicts(t *testing.T) {
	srv := newTestServer()
	summary := upload(t, srv, "red.png", redBlockImage(), nil)

	resp := do(t, srv, http.MethodPost, "/api/images/"+summary.ID+"/shake")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "build the image first" {
		t.Errorf("Unexpected error message %q", body["error"])
	}
}

func TestUnknownImageNotFound(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/images/nope/build"},
		{http.MethodPost, "/api/images/nope/shake"},
		{http.MethodDelete, "/api/images/nope"},
		{http.MethodGet, "/api/images/nope/frame.png"},
		{http.MethodGet, "/api/images/nope/frame.webp"},
		{http.MethodGet, "/api/images/nope/grid"},
		{http.MethodGet, "/api/images/nope/grid.html"},
		{http.MethodGet, "/api/images/nope/shake.gif"},
	}
	for _, tt := range tests {
		resp := do(t, srv, tt.method, tt.path)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tt.method, tt.path, resp.StatusCode)
		}
	}
}

func TestGridDocumentEndpoint(t *testing.T) {
	srv := newTestServer()
	summary := upload(t, srv, "red.png", redBlockImage(), nil)

	resp := do(t, srv, http.MethodGet, "/api/images/"+summary.ID+"/grid")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var grid pixelshuffle.BlockGrid
	if err := json.NewDecoder(resp.Body).Decode(&grid); err != nil {
		t.Fatalf("Decoding grid failed: %v", err)
	}
	if grid.BlockSize() != 25 || grid.PixelWidth() != 50 || grid.PixelHeight() != 50 {
		t.Errorf("Unexpected geometry %d/%dx%d", grid.BlockSize(), grid.PixelWidth(), grid.PixelHeight())
	}
	if got, ok := grid.At(pixelshuffle.Coord{Col: 0, Row: 0}); !ok || (got != pixelshuffle.RGB{R: 255, G: 0, B: 0}) {
		t.Errorf("Expected the red cell at (0,0), got %v %v", got, ok)
	}
}

func TestGridHTMLEndpoint(t *testing.T) {
	srv := newTestServer()
	summary := upload(t, srv, "red.png", redBlockImage(), nil)

	resp := do(t, srv, http.MethodGet, "/api/images/"+summary.ID+"/grid.html")
	defer resp.Body.Close()
	if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, fiber.MIMETextHTML) {
		t.Errorf("Expected text/html, got %q", ct)
	}
	var plain bytes.Buffer
	if _, err := plain.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(plain.String(), "pixel colored") {
		t.Error("Expected a colored cell in the fragment")
	}
	if strings.Contains(plain.String(), "initializing") {
		t.Error("Static fragment should not animate")
	}

	resp = do(t, srv, http.MethodGet, "/api/images/"+summary.ID+"/grid.html?animate=1")
	defer resp.Body.Close()
	var animated bytes.Buffer
	if _, err := animated.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(animated.String(), "initializing") {
		t.Error("Animated fragment should carry the initializing class")
	}
}

func TestShakeGIFEndpoint(t *testing.T) {
	srv := newTestServer()
	summary := upload(t, srv, "red.png", redBlockImage(), nil)

	resp := do(t, srv, http.MethodGet, "/api/images/"+summary.ID+"/shake.gif?frames=3&delay=5")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "image/gif" {
		t.Errorf("Expected image/gif, got %q", ct)
	}
	decoded, err := gif.DecodeAll(resp.Body)
	if err != nil {
		t.Fatalf("Decoding GIF failed: %v", err)
	}
	if len(decoded.Image) != 3 {
		t.Errorf("Expected 3 frames, got %d", len(decoded.Image))
	}
	for i, d := range decoded.Delay {
		if d != 5 {
			t.Errorf("Frame %d: expected delay 5, got %d", i, d)
		}
	}
}

func TestShakeGIFClampsFrames(t *testing.T) {
	srv := newTestServer()
	summary := upload(t, srv, "red.png", redBlockImage(), nil)

	resp := do(t, srv, http.MethodGet, "/api/images/"+summary.ID+"/shake.gif?frames=1")
	defer resp.Body.Close()
	decoded, err := gif.DecodeAll(resp.Body)
	if err != nil {
		t.Fatalf("Decoding GIF failed: %v", err)
	}
	if len(decoded.Image) != 2 {
		t.Errorf("Expected the frame count clamped to 2, got %d", len(decoded.Image))
	}

	shakes := 0
	for _, sess := range srv.store.List() {
		shakes += sess.Shakes
	}
	if shakes != 0 {
		t.Errorf("GIF rendering changed session state: %d shakes", shakes)
	}
}

func TestFrameWebPEndpoint(t *testing.T) {
	srv := newTestServer()
	summary := upload(t, srv, "red.png", redBlockImage(), nil)

	resp := do(t, srv, http.MethodGet, "/api/images/"+summary.ID+"/frame.webp")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "image/webp" {
		t.Errorf("Expected image/webp, got %q", ct)
	}
	frame, format, err := image.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Decoding frame failed: %v", err)
	}
	if format != "webp" {
		t.Errorf("Expected webp, got %q", format)
	}
	if frame.Bounds().Dx() != 50 || frame.Bounds().Dy() != 50 {
		t.Errorf("Expected a 50x50 frame, got %dx%d", frame.Bounds().Dx(), frame.Bounds().Dy())
	}
}

func TestDeleteImage(t *testing.T) {
	srv := newTestServer()
	summary := upload(t, srv, "red.png", redBlockImage(), nil)

	resp := do(t, srv, http.MethodDelete, "/api/images/"+summary.ID)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	listResp := do(t, srv, http.MethodGet, "/api/images")
	defer listResp.Body.Close()
	var listed []imageSummary
	if err := json.NewDecoder(listResp.Body).Decode(&listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 0 {
		t.Errorf("Expected no sessions after delete, got %d", len(listed))
	}

	again := do(t, srv, http.MethodDelete, "/api/images/"+summary.ID)
	again.Body.Close()
	if again.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 on repeat delete, got %d", again.StatusCode)
	}
}
