package service

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"dockview/internal/apperr"
	"dockview/internal/navigator"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageInfo holds metadata about an image file.
type ImageInfo struct {
	Path     string
	Format   string
	Width    int
	Height   int
	Size     int64
	ModTime  time.Time
	EXIFData map[string]string
}

// exifFields are the EXIF tags reported by Info.
var exifFields = []exif.FieldName{
	exif.DateTime, exif.Model, exif.Make, exif.ExposureTime, exif.FNumber, exif.ISOSpeedRatings, exif.FocalLength,
}

// ImageService decodes, inspects and transforms image files.
type ImageService struct {
}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

func openImage(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	return f, nil
}

// Decode reads an image and applies its EXIF orientation.
func (is *ImageService) Decode(path string) (image.Image, error) {
	f, err := openImage(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrUnsupportedFormat, path, err)
	}
	return img, nil
}

// GetEXIF extracts a few common EXIF fields and the orientation tag.
// Images without EXIF yield an empty map and orientation 1.
func (is *ImageService) GetEXIF(r io.Reader) (map[string]string, int) {
	result := make(map[string]string)
	x, err := exif.Decode(r)
	if err != nil {
		return result, 1 // Not all images have EXIF; not an error for non-JPEGs
	}
	for _, field := range exifFields {
		tag, err := x.Get(field)
		if err == nil && tag != nil {
			result[string(field)] = tag.String()
		}
	}
	orientation := 1
	if tag, err := x.Get(exif.Orientation); err == nil {
		if v, err := tag.Int(0); err == nil {
			orientation = v
		}
	}
	return result, orientation
}

// Info returns dimensions as displayed (after EXIF orientation), file size,
// modification time and EXIF data without decoding the pixels.
func (is *ImageService) Info(path string) (*ImageInfo, error) {
	f, err := openImage(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}

	exifData, orientation := is.GetEXIF(f)

	// Seek back to the beginning of the file for the header decode
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek in image file: %w", err)
	}
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrUnsupportedFormat, path, err)
	}

	w, h := cfg.Width, cfg.Height
	if orientation >= 5 && orientation <= 8 { // transposed orientations
		w, h = h, w
	}
	return &ImageInfo{
		Path:     path,
		Format:   format,
		Width:    w,
		Height:   h,
		Size:     fi.Size(),
		ModTime:  fi.ModTime(),
		EXIFData: exifData,
	}, nil
}

// Bounds returns the size of a decoded image.
func Bounds(img image.Image) navigator.Size {
	b := img.Bounds()
	return navigator.Size{W: b.Dx(), H: b.Dy()}
}

// Render rotates img clockwise and scales it to the instruction's target size.
func (is *ImageService) Render(img image.Image, ins navigator.Instruction) image.Image {
	out := img
	switch ins.Rotation {
	case 90:
		out = imaging.Rotate270(out) // imaging rotates counter-clockwise
	case 180:
		out = imaging.Rotate180(out)
	case 270:
		out = imaging.Rotate90(out)
	}

	if ins.Target.W > 0 && ins.Target.H > 0 && Bounds(out) != ins.Target {
		filter := imaging.Lanczos
		if ins.Scale > 1 {
			filter = imaging.Linear
		}
		out = imaging.Resize(out, ins.Target.W, ins.Target.H, filter)
	}
	return out
}

// Save writes img to path; the format follows the file extension.
func (is *ImageService) Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}

// SaveAs writes the image at src to dst. When both names map to the same
// format the file is copied byte for byte, keeping its metadata; otherwise
// it is decoded and encoded again in dst's format.
func (is *ImageService) SaveAs(src, dst string) error {
	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", src, err)
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dst, err)
	}
	if srcAbs == dstAbs {
		return fmt.Errorf("cannot save %s over itself", src)
	}

	dstFormat, err := imaging.FormatFromFilename(dstAbs)
	if err != nil {
		return fmt.Errorf("%w: cannot write %s", apperr.ErrUnsupportedFormat, filepath.Ext(dstAbs))
	}
	if srcFormat, err := imaging.FormatFromFilename(srcAbs); err == nil && srcFormat == dstFormat {
		return copyFile(srcAbs, dstAbs)
	}

	img, err := is.Decode(srcAbs)
	if err != nil {
		return err
	}
	return is.Save(img, dstAbs)
}

// copyFile copies src to dst through a temporary file in dst's directory,
// so a failed copy never leaves a truncated dst behind.
func copyFile(src, dst string) error {
	in, err := openImage(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".dockview-save-*")
	if err != nil {
		return fmt.Errorf("failed to save image %s: %w", dst, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save image %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save image %s: %w", dst, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to save image %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to save image %s: %w", dst, err)
	}
	return nil
}
