package render

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// faceSet holds the three faces the layout uses.
type faceSet struct {
	heading text.Face // brand heading
	body    text.Face // labels and customer line
	small   text.Face // metadata, table cells
}

const (
	headingPts = 60
	bodyPts    = 36
	smallPts   = 28
)

// loadFaces builds the face set from the bundled typeface at fontPath,
// falling back to Go Regular when the file is missing or unparseable.
// Rendering must never fail because a font asset is absent.
func loadFaces(fontPath string) (*faceSet, error) {
	if fontPath != "" {
		source, err := text.NewFontSourceFromFile(fontPath)
		if err == nil {
			return facesFrom(source), nil
		}
		slog.Warn("falling back to built-in font", "path", fontPath, "error", err)
	}

	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback font: %w", err)
	}
	return facesFrom(source), nil
}

func facesFrom(source *text.FontSource) *faceSet {
	return &faceSet{
		heading: source.Face(headingPts),
		body:    source.Face(bodyPts),
		small:   source.Face(smallPts),
	}
}
