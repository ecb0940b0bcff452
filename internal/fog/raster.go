package fog

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
)

// jpegQuality is the encoder quality of stored exploration rasters
const jpegQuality = 80

// EncodeRaster downscales img isotropically so neither side exceeds maxSize and
// returns it as a JPEG data URL. Alpha becomes gray since JPEG has no alpha.
func EncodeRaster(img image.Image, maxSize int) (string, image.Rectangle, error) {
	b := img.Bounds()
	if b.Empty() {
		return "", image.Rectangle{}, errors.InvalidArgument("raster is empty")
	}

	w, h := b.Dx(), b.Dy()
	if longest := max(w, h); longest > maxSize {
		scale := float64(maxSize) / float64(longest)
		w = max(1, int(math.Floor(float64(w)*scale)))
		h = max(1, int(math.Floor(float64(h)*scale)))
	}

	gray := image.NewGray(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		xdraw.Draw(gray, gray.Bounds(), img, b.Min, xdraw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, b, xdraw.Src, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gray, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", image.Rectangle{}, errors.Wrap(err, "failed to encode fog raster")
	}
	return entities.FogExplorationDataPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), gray.Bounds(), nil
}

// DecodeRaster parses a stored JPEG data URL
func DecodeRaster(dataURL string) (image.Image, error) {
	payload, ok := strings.CutPrefix(dataURL, entities.FogExplorationDataPrefix)
	if !ok {
		return nil, errors.InvalidArgument("fog raster is not a jpeg data url")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "fog raster is not valid base64")
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "fog raster is not a valid jpeg")
	}
	return img, nil
}
