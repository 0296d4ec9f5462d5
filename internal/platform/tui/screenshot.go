package tui

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// screenshotScale is the number of image pixels per board cell.
const screenshotScale = 4

// SavePNG writes a color buffer to path as a PNG image, each cell drawn as
// a scale×scale square.
func SavePNG(path string, buf []color.RGBA, w, h, scale int) error {
	if len(buf) != w*h {
		return fmt.Errorf("screenshot: buffer holds %d pixels, expected %dx%d", len(buf), w, h)
	}
	if scale < 1 {
		scale = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h*scale; y++ {
		for x := 0; x < w*scale; x++ {
			img.SetRGBA(x, y, buf[(y/scale)*w+x/scale])
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("screenshot: cannot create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot: cannot create file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("screenshot: cannot encode: %w", err)
	}
	return f.Close()
}

// screenshotPath returns a timestamped file name inside dir.
func screenshotPath(dir, scenario string, tick uint64) string {
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s_t%d.png", scenario, timestamp, tick))
}

// DefaultScreenshotDir returns ~/.pixelwar/screenshots.
func DefaultScreenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "screenshots"
	}
	return filepath.Join(home, ".pixelwar", "screenshots")
}
