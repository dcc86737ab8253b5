package alternatives

import "errors"

var (
	// ErrDecodeEntry возвращается, когда закэшированное значение не удалось разобрать
	ErrDecodeEntry = errors.New("alternatives cache: failed to decode entry")

	// ErrEncodeEntry возвращается, когда значение не удалось сериализовать
	ErrEncodeEntry = errors.New("alternatives cache: failed to encode entry")
)
