package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropResult contains a cropped region encoded for transport.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropImage extracts a region as a new image. The source image is never
// modified; segmentation always works on fresh crops.
func CropImage(img image.Image, region Region) (image.Image, error) {
	region = region.Clamp(img)
	if region.Empty() {
		return nil, fmt.Errorf("crop region %s has no area within image bounds", region)
	}
	return imaging.Crop(img, region.Rect()), nil
}

// Crop extracts a region and returns it as base64-encoded PNG, optionally
// scaled. Used by the MCP tool surface; the pipeline uses CropImage.
func Crop(img image.Image, region Region, scale float64) (*CropResult, error) {
	cropped, err := CropImage(img, region)
	if err != nil {
		return nil, err
	}

	out := imaging.Clone(cropped)
	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(out.Bounds().Dx()) * scale)
		newHeight := int(float64(out.Bounds().Dy()) * scale)
		out = imaging.Resize(out, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// ColumnRegions converts image-absolute column boundaries into one region
// per move column, spanning the table's full height. Boundaries must be
// strictly increasing; len(boundaries)-1 regions are returned.
func ColumnRegions(table Region, boundaries []int) []Region {
	if len(boundaries) < 2 {
		return nil
	}
	regions := make([]Region, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		regions = append(regions, Region{
			X:      boundaries[i],
			Y:      table.Y,
			Width:  boundaries[i+1] - boundaries[i],
			Height: table.Height,
		})
	}
	return regions
}

// UpscaleForOCR enlarges narrow column crops so small handwriting stays
// legible to the OCR engine. Columns at or above minWidth are returned
// unchanged.
func UpscaleForOCR(img image.Image, minWidth int) image.Image {
	w := img.Bounds().Dx()
	if w >= minWidth || w == 0 {
		return img
	}
	factor := (minWidth + w - 1) / w
	return imaging.Resize(img, w*factor, img.Bounds().Dy()*factor, imaging.Lanczos)
}
