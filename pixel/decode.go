package pixel

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeError reports a malformed or unsupported image. It is fatal to the
// load attempt only; the caller keeps its previously loaded buffer.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode loads and decodes an image file into a Buffer. Images whose larger
// dimension exceeds maxDim are downscaled to it before conversion, keeping
// interactive recomposition bounded on very large inputs. maxDim <= 0
// disables the cap.
func Decode(path string, maxDim int) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("zero-area image")}
	}

	if maxDim > 0 && (bounds.Dx() > maxDim || bounds.Dy() > maxDim) {
		if bounds.Dx() >= bounds.Dy() {
			img = resize.Resize(uint(maxDim), 0, img, resize.Lanczos3)
		} else {
			img = resize.Resize(0, uint(maxDim), img, resize.Lanczos3)
		}
	}

	return FromImage(img), nil
}
