package compose

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font sizes in points, matching the print layout the shop signs off on.
const (
	itemFontSize   = 25
	titleFontSize  = 13
	detailFontSize = 12
)

type faceSet struct {
	itemBold  font.Face
	titleBold font.Face
	detail    font.Face
}

var (
	facesOnce sync.Once
	faces     faceSet
	facesErr  error
)

// loadFaces parses the embedded Go fonts once. Faces are shared between
// compose workers; font.Face drawing is not goroutine-safe, so each worker
// gets its own Drawer but shares the parsed fonts behind a mutex (see
// Composer.renderMu).
func loadFaces() (faceSet, error) {
	facesOnce.Do(func() {
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			facesErr = fmt.Errorf("parse bold font: %w", err)
			return
		}
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			facesErr = fmt.Errorf("parse regular font: %w", err)
			return
		}

		newFace := func(f *opentype.Font, size float64) (font.Face, error) {
			return opentype.NewFace(f, &opentype.FaceOptions{
				Size:    size,
				DPI:     72,
				Hinting: font.HintingFull,
			})
		}

		if faces.itemBold, err = newFace(bold, itemFontSize); err != nil {
			facesErr = err
			return
		}
		if faces.titleBold, err = newFace(bold, titleFontSize); err != nil {
			facesErr = err
			return
		}
		if faces.detail, err = newFace(regular, detailFontSize); err != nil {
			facesErr = err
			return
		}
	})
	return faces, facesErr
}
