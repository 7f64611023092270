package probe

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

var fileModTime = time.Unix(1700000000, 0)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProbe_Local(t *testing.T) {
	dir := t.TempDir()

	t.Run("Should read PNG dimensions", func(t *testing.T) {
		path := filepath.Join(dir, "a.png")
		require.NoError(t, os.WriteFile(path, encodePNG(t, 320, 200), 0o644))

		dims, err := New().Probe(testContext(t), path)
		require.NoError(t, err)
		assert.Equal(t, Dimensions{Source: path, Width: 320, Height: 200, Format: "png"}, dims)
	})

	t.Run("Should read BMP dimensions", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, bmp.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 48))))
		path := filepath.Join(dir, "b.bmp")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

		dims, err := New().Probe(testContext(t), path)
		require.NoError(t, err)
		assert.Equal(t, 64, dims.Width)
		assert.Equal(t, 48, dims.Height)
		assert.Equal(t, "bmp", dims.Format)
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("plain text, not an image"), 0o644))

		_, err := New().Probe(testContext(t), path)
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("Should fail on missing files", func(t *testing.T) {
		_, err := New().Probe(testContext(t), filepath.Join(dir, "missing.png"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestProbe_Remote(t *testing.T) {
	data := encodePNG(t, 1280, 720)
	var gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/img.png":
			gotRange = r.Header.Get("Range")
			http.ServeContent(w, r, "img.png", fileModTime, bytes.NewReader(data))
		case "/slow.png":
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	t.Run("Should read dimensions from a partial download", func(t *testing.T) {
		dims, err := New(WithMaxBytes(1024)).Probe(testContext(t), srv.URL+"/img.png")
		require.NoError(t, err)
		assert.Equal(t, 1280, dims.Width)
		assert.Equal(t, 720, dims.Height)
		assert.Equal(t, "bytes=0-1023", gotRange)
	})

	t.Run("Should report HTTP failures", func(t *testing.T) {
		_, err := New().Probe(testContext(t), srv.URL+"/missing.png")
		assert.ErrorContains(t, err, "unexpected status 404")
	})

	t.Run("Should time out slow sources on a custom client", func(t *testing.T) {
		p := New(WithTimeout(50*time.Millisecond), WithHTTPClient(&http.Client{}))

		_, err := p.Probe(testContext(t), srv.URL+"/slow.png")
		assert.Error(t, err)
	})

	t.Run("Should probe many sources and keep order", func(t *testing.T) {
		results := New(WithHTTPClient(srv.Client())).All(testContext(t), []string{
			srv.URL + "/img.png",
			srv.URL + "/missing.png",
			"",
		}, 2)

		require.Len(t, results, 3)
		assert.NoError(t, results[0].Err)
		assert.Equal(t, 1280, results[0].Width)
		assert.Error(t, results[1].Err)
		assert.Error(t, results[2].Err)
	})
}

func TestNew_Timeout(t *testing.T) {
	custom := &http.Client{Timeout: time.Minute}

	t.Run("Should keep the timeout set before the client", func(t *testing.T) {
		p := New(WithTimeout(3*time.Second), WithHTTPClient(custom))
		assert.Equal(t, 3*time.Second, p.client.GetClient().Timeout)
	})

	t.Run("Should keep the timeout set after the client", func(t *testing.T) {
		p := New(WithHTTPClient(&http.Client{}), WithTimeout(3*time.Second))
		assert.Equal(t, 3*time.Second, p.client.GetClient().Timeout)
	})

	t.Run("Should default the timeout", func(t *testing.T) {
		assert.Equal(t, DefaultTimeout, New().client.GetClient().Timeout)
	})
}

// testContext mirrors testing.T.Context (Go 1.24+): the context is canceled
// when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
