package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

// Source is a decoded photo ready for contour extraction.
type Source struct {
	// ID identifies the file contents: path, size and modification time.
	// It changes whenever the file is rewritten.
	ID string

	// Path is the file the source was loaded from.
	Path string

	// Image is the oriented and possibly downscaled image.
	Image image.Image

	// Raster is Image converted for the contour pipeline.
	Raster *contour.Raster

	// OriginalWidth and OriginalHeight are the dimensions after EXIF
	// orientation but before downscaling.
	OriginalWidth  int
	OriginalHeight int
}

// Downscaled reports whether the photo was shrunk to fit the size cap.
func (s *Source) Downscaled() bool {
	return s.Raster.Width != s.OriginalWidth || s.Raster.Height != s.OriginalHeight
}

// RasterCache loads photos from disk and keeps the most recently used ones
// decoded in memory.
//
// Entries are keyed by path and revalidated against the file's size and
// modification time on every Load, so a rewritten file is decoded again.
//
// RasterCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache, err := imaging.NewRasterCache(32, 2048)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	src, err := cache.Load("/photos/barrel.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c, err := contour.Extract(src.Raster, 45, 7.2)
type RasterCache struct {
	sources *lru.Cache[string, *Source]
	maxDim  int
}

// NewRasterCache creates a cache holding at most size decoded photos.
//
// Parameters:
//   - size: Maximum number of cached photos. Must be positive.
//   - maxDim: Longest side, in pixels, a loaded photo is downscaled to.
//     Zero keeps the original resolution.
func NewRasterCache(size, maxDim int) (*RasterCache, error) {
	sources, err := lru.New[string, *Source](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create raster cache: %w", err)
	}
	return &RasterCache{sources: sources, maxDim: maxDim}, nil
}

// Load returns the decoded photo at path, reading it from disk if it is not
// cached or has changed since it was cached.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. JPEG orientation
// tags are applied so the barrel appears as photographed.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a supported image
func (c *RasterCache) Load(path string) (*Source, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	id := sourceID(path, stat)

	if src, ok := c.sources.Get(path); ok && src.ID == id {
		return src, nil
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	src := &Source{
		ID:             id,
		Path:           path,
		OriginalWidth:  bounds.Dx(),
		OriginalHeight: bounds.Dy(),
	}
	if c.maxDim > 0 && (bounds.Dx() > c.maxDim || bounds.Dy() > c.maxDim) {
		img = imaging.Fit(img, c.maxDim, c.maxDim, imaging.Lanczos)
	}
	src.Image = img
	src.Raster = contour.FromImage(img)

	c.sources.Add(path, src)
	return src, nil
}

// Peek returns the cached photo for path without touching the file or the
// recency order.
func (c *RasterCache) Peek(path string) (*Source, bool) {
	return c.sources.Peek(path)
}

// Evict removes a specific photo from the cache by its path.
func (c *RasterCache) Evict(path string) {
	c.sources.Remove(path)
}

// Clear removes all photos from the cache.
func (c *RasterCache) Clear() {
	c.sources.Purge()
}

func sourceID(path string, stat os.FileInfo) string {
	return fmt.Sprintf("%s@%d:%d", path, stat.Size(), stat.ModTime().UnixNano())
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the stored image width in pixels.
	Width int `json:"width"`

	// Height is the stored image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that recognised the file: "png", "jpeg", "gif",
	// "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the color model carries transparency.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// WithinSizeCap is false when extraction will work on a downscaled copy.
	WithinSizeCap bool `json:"within_size_cap"`
}

// LoadImageInfo reads the header of the image at path without decoding the
// pixel data.
//
// The reported dimensions are as stored; EXIF orientation is not applied.
func (c *RasterCache) LoadImageInfo(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	info := &ImageInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		ColorDepth:    "8-bit",
		FileSizeBytes: stat.Size(),
		WithinSizeCap: c.maxDim == 0 || (cfg.Width <= c.maxDim && cfg.Height <= c.maxDim),
	}
	if p, ok := cfg.ColorModel.(color.Palette); ok {
		for _, entry := range p {
			if _, _, _, a := entry.RGBA(); a < 0xffff {
				info.HasAlpha = true
				break
			}
		}
		return info, nil
	}
	switch cfg.ColorModel {
	case color.RGBA64Model, color.NRGBA64Model:
		info.HasAlpha = true
		info.ColorDepth = "16-bit"
	case color.Gray16Model:
		info.ColorDepth = "16-bit"
	case color.RGBAModel, color.NRGBAModel:
		info.HasAlpha = true
	}
	return info, nil
}
