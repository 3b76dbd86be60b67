package controller

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tutorhub_backend/internals/constants"
	helper "tutorhub_backend/internals/helpers"
	"tutorhub_backend/internals/helpers/oss"
)

// 20 MB per upload, matches the server-level body limit.
const maxUploadBytes = 20 << 20

type UploadController struct {
	Blob *oss.Client
}

func NewUploadController(blob *oss.Client) *UploadController {
	return &UploadController{Blob: blob}
}

func (ctrl *UploadController) readFile(c *fiber.Ctx) (string, []byte, error) {
	if ctrl.Blob == nil {
		return "", nil, fiber.NewError(fiber.StatusServiceUnavailable, "Blob storage is not configured")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	if fh.Size > maxUploadBytes {
		return "", nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "File too large")
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return "", nil, err
	}
	if len(data) > maxUploadBytes {
		return "", nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "File too large")
	}
	return fh.Filename, data, nil
}

func (ctrl *UploadController) respond(c *fiber.Ctx, key string) error {
	signed, err := ctrl.Blob.SignURL(key, constants.SignedURLTTL)
	if err != nil {
		// the key is stored either way, the caller can re-request a link
		signed = ""
	}
	return helper.JsonCreated(c, "File uploaded", fiber.Map{
		"key":        key,
		"signed_url": signed,
	})
}

/* ===================== POST /api/a/uploads/image ===================== */

// UploadImage re-encodes a jpeg/png/webp upload to capped WebP and
// stores it under the media prefix.
func (ctrl *UploadController) UploadImage(c *fiber.Ctx) error {
	name, data, err := ctrl.readFile(c)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	key, err := ctrl.Blob.UploadImageWebP(base, data)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ctrl.respond(c, key)
}

/* ===================== POST /api/a/uploads/pdf ===================== */

// UploadPDF stores a past-paper or mark-scheme PDF as-is under the
// papers prefix.
func (ctrl *UploadController) UploadPDF(c *fiber.Ctx) error {
	name, data, err := ctrl.readFile(c)
	if err != nil {
		return err
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if !strings.Contains(http.DetectContentType(head), "pdf") && !bytes.HasPrefix(data, []byte("%PDF")) {
		return fiber.NewError(fiber.StatusBadRequest, "Only PDF files are accepted")
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	key := oss.ObjectKey("papers", base, ".pdf")
	if err := ctrl.Blob.UploadBytes(key, data, "application/pdf"); err != nil {
		return err
	}
	return ctrl.respond(c, key)
}
