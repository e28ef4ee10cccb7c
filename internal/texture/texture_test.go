package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	path := filepath.Join(dir, "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadTexture(t *testing.T) {
	path := writePNG(t, t.TempDir())
	img, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(1, 1))

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0644))
	_, err = LoadTexture(bad)
	assert.Error(t, err)
}

func TestToNRGBAOffsetOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(6, 5, color.NRGBA{G: 9, A: 255})
	dst := toNRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), dst.Bounds())
	assert.Equal(t, color.NRGBA{G: 9, A: 255}, dst.NRGBAAt(1, 0))
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir)
	c := NewCache()

	var wg sync.WaitGroup
	imgs := make([]*image.NRGBA, 8)
	for i := range imgs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			imgs[i] = c.Resolve(path)
		}(i)
	}
	wg.Wait()

	require.NotNil(t, imgs[0])
	assert.Equal(t, 1, c.Len())
	for _, img := range imgs {
		assert.NotNil(t, img)
	}

	assert.Nil(t, c.Resolve(""))
	assert.Nil(t, c.Resolve(filepath.Join(dir, "missing.png")))
	_, err := c.Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
	assert.Equal(t, 2, c.Len())
}
