package compose

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/swanseaprintco/manifest-press/internal/common"
)

// thumbnailBackground is the grey backing square thumbnails are composited
// onto, so transparent design PNGs stay visible on the white page.
var thumbnailBackground = color.NRGBA{R: 192, G: 192, B: 192, A: 255}

// loadThumbnail opens the design PNG, resizes it to a size×size square and
// composites it over the grey background. Any failure maps to
// ErrAssetNotFound so the caller can record a miss and keep rendering.
func loadThumbnail(assetFolder, designCode string, size int) (image.Image, error) {
	path := thumbnailPath(assetFolder, designCode)

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, common.ErrAssetNotFound)
	}

	resized := imaging.Resize(img, size, size, imaging.Lanczos)
	background := imaging.New(size, size, thumbnailBackground)
	return imaging.Overlay(background, resized, image.Pt(0, 0), 1.0), nil
}

// thumbnailPath is the source location of one design's thumbnail asset.
func thumbnailPath(assetFolder, designCode string) string {
	return filepath.Join(assetFolder, designCode+".png")
}

// copyAsset copies the original design file into the print folder under its
// rename token, creating the design-folder bucket on first use. The copy is
// byte-for-byte; print tooling re-reads the original resolution.
func copyAsset(assetFolder, designCode, targetFolder, designFolder, renameToken string) error {
	src, err := os.Open(thumbnailPath(assetFolder, designCode))
	if err != nil {
		return fmt.Errorf("%s: %w", thumbnailPath(assetFolder, designCode), common.ErrAssetNotFound)
	}
	defer src.Close()

	bucket := filepath.Join(targetFolder, designFolder)
	if err := os.MkdirAll(bucket, 0755); err != nil {
		return fmt.Errorf("create asset bucket: %w", err)
	}

	dst, err := os.Create(filepath.Join(bucket, renameToken+".png"))
	if err != nil {
		return fmt.Errorf("create renamed asset: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy asset: %w", err)
	}
	return nil
}
