package oss

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

func env(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func envInt(key string, def int) int {
	if v := env(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float32) float32 {
	if v := env(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil && f > 0 {
			return float32(f)
		}
	}
	return def
}

/* =======================================================================
   Image normalization: decode jpeg/png/webp, cap dimensions, encode WebP
======================================================================= */

func decodeImage(all []byte) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	default:
		return nil, fmt.Errorf("unsupported image type: %s", ct)
	}
}

func capDimensions(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	fitted := imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	// imaging.Fit already resamples; CatmullRom pass keeps edges crisp for
	// screenshots with text, which revision-note images usually are.
	dst := image.NewRGBA(fitted.Bounds())
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), fitted, fitted.Bounds(), xdraw.Over, nil)
	return dst
}

// EncodeWebP normalizes an uploaded image: decode, cap at
// IMAGE_WEBP_MAX_W/H (default 1600), lossy WebP at IMAGE_WEBP_QUALITY
// (default 80).
func EncodeWebP(raw []byte) ([]byte, error) {
	img, err := decodeImage(raw)
	if err != nil {
		return nil, err
	}
	img = capDimensions(img, envInt("IMAGE_WEBP_MAX_W", 1600), envInt("IMAGE_WEBP_MAX_H", 1600))

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: envFloat("IMAGE_WEBP_QUALITY", 80)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UploadImageWebP re-encodes an image to WebP and stores it under the media
// prefix, returning the object key.
func (c *Client) UploadImageWebP(name string, raw []byte) (string, error) {
	data, err := EncodeWebP(raw)
	if err != nil {
		return "", err
	}
	key := ObjectKey("media", name, ".webp")
	if err := c.UploadBytes(key, data, "image/webp"); err != nil {
		return "", err
	}
	return key, nil
}
