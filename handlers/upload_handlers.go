package handlers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"emailbuilder/internal/assets"
	"emailbuilder/internal/jobs"
	"emailbuilder/utils"
)

// UploadImageResponse is returned after a successful upload.
type UploadImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// UploadImage godoc
// @Summary Upload an image
// @Description Stores the multipart field "image" in the upload directory and returns the URL it is served from.
// @Tags assets
// @Accept  multipart/form-data
// @Produce  json
// @Param   image formData file true "Image to upload"
// @Success 200 {object} UploadImageResponse
// @Failure 400 {object} utils.ErrorResponse "No file uploaded"
// @Failure 500 {object} utils.ErrorResponse "The file could not be written"
// @Router /api/uploadImage [post]
func (h *ApplicationHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return h.respondError(c, "No file uploaded", utils.NewValidationError("missing image field", utils.ErrNoFileUploaded))
	}

	fileHandle, err := file.Open()
	if err != nil {
		return h.respondError(c, "Failed to upload image: "+err.Error(), utils.NewStorageError("open upload", err))
	}
	defer fileHandle.Close()

	name, imageURL, err := h.Assets.Save(c.UserContext(), fileHandle, file.Filename)
	if err != nil {
		return h.respondError(c, "Failed to upload image: "+err.Error(), err)
	}

	h.log(c).WithFields(logrus.Fields{
		"name": name,
		"size": file.Size,
	}).Info("File uploaded successfully")
	if h.Metrics != nil {
		h.Metrics.AssetsUploaded.Inc()
	}
	h.queueThumbnail(c, name)

	return c.Status(fiber.StatusOK).JSON(UploadImageResponse{ImageURL: imageURL})
}

// queueThumbnail asks the background workers for a preview of the upload.
// Failures only affect the preview, never the upload itself.
func (h *ApplicationHandler) queueThumbnail(c *fiber.Ctx, name string) {
	if h.Jobs == nil || h.ThumbnailSize <= 0 {
		return
	}
	job := jobs.NewThumbnailJob(
		h.Assets.Path(name),
		filepath.Join(h.Assets.Dir(), assets.ThumbDir),
		h.ThumbnailSize,
		h.Logger,
	)
	if h.ThumbnailMaxPixels > 0 {
		job.MaxPixels = h.ThumbnailMaxPixels
	}
	if err := h.Jobs.SubmitJob(job); err != nil {
		h.log(c).WithField("error", err.Error()).Warn("Thumbnail not queued")
	}
}
