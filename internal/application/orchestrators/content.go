package orchestrators

import (
	"io"

	"batalhao/internal/domain/validation"
)

// ErrMissingID is returned when a command needs a record id and got none.
var ErrMissingID = validation.New("id é obrigatório")

// ImageFiles stores uploaded pictures. Implemented by uploads.Dir.
type ImageFiles interface {
	SaveImage(sub, name string, src io.Reader) (string, error)
	Remove(publicPath string) error
}
