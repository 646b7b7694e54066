package jobs

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// DefaultMaxPixels bounds the decoded size of an image a thumbnail is made
// from.
const DefaultMaxPixels = 40_000_000

// ThumbnailJob writes a downscaled preview of an uploaded image. Uploads
// that are not in a format the imaging package can decode, or whose
// dimensions exceed MaxPixels, are skipped.
type ThumbnailJob struct {
	JobID      string
	InputFile  string
	OutputFile string
	MaxSize    int
	MaxPixels  int64 // zero disables the check
	Logger     *logrus.Logger
}

// NewThumbnailJob creates a ThumbnailJob for inputFile. The preview keeps
// the file name and lands in outputDir.
func NewThumbnailJob(inputFile, outputDir string, maxSize int, logger *logrus.Logger) *ThumbnailJob {
	name := filepath.Base(inputFile)
	return &ThumbnailJob{
		JobID:      "thumbnail:" + name,
		InputFile:  inputFile,
		OutputFile: filepath.Join(outputDir, name),
		MaxSize:    maxSize,
		MaxPixels:  DefaultMaxPixels,
		Logger:     logger,
	}
}

// ID returns the unique identifier of the job.
func (j *ThumbnailJob) ID() string {
	return j.JobID
}

// Execute decodes the upload and saves the preview.
func (j *ThumbnailJob) Execute(ctx context.Context) error {
	if _, err := imaging.FormatFromFilename(j.InputFile); err != nil {
		j.Logger.WithField("file", j.InputFile).Debug("Skipping thumbnail for unsupported format")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Only the header is read here; a small compressed file can still
	// describe an image far too large to hold in memory.
	width, height, err := j.dimensions()
	if err != nil {
		return err
	}
	if j.MaxPixels > 0 && int64(width)*int64(height) > j.MaxPixels {
		j.Logger.WithFields(logrus.Fields{
			"file":       j.InputFile,
			"width":      width,
			"height":     height,
			"max_pixels": j.MaxPixels,
		}).Warn("Skipping thumbnail for oversized image")
		return nil
	}

	src, err := imaging.Open(j.InputFile, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", j.InputFile, err)
	}
	thumb := imaging.Fit(src, j.MaxSize, j.MaxSize, imaging.Lanczos)

	if err := os.MkdirAll(filepath.Dir(j.OutputFile), 0o755); err != nil {
		return fmt.Errorf("failed to create thumbnail dir: %w", err)
	}
	if err := imaging.Save(thumb, j.OutputFile); err != nil {
		return fmt.Errorf("failed to save thumbnail %s: %w", j.OutputFile, err)
	}

	bounds := thumb.Bounds()
	j.Logger.WithFields(logrus.Fields{
		"file":   j.OutputFile,
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
	}).Info("Thumbnail written")
	return nil
}

func (j *ThumbnailJob) dimensions() (int, int, error) {
	f, err := os.Open(j.InputFile)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open %s: %w", j.InputFile, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode %s: %w", j.InputFile, err)
	}
	return cfg.Width, cfg.Height, nil
}
