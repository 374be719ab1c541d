package grammar

import (
	"errors"
	"fmt"
)

// errDecoderPoisoned is returned once a Decoder has rejected a PDU; no
// further Feed calls attempt resynchronisation on the same stream.
var errDecoderPoisoned = errors.New("grammar: decoder is poisoned by a prior error")

// errUnknownOperationTag indicates an envelope arrived with a
// protocolOp tag dispatch has no entry for.
var errUnknownOperationTag = errors.New("grammar: unrecognized protocolOp tag")

func unknownOperationTagError(tag int) error {
	return fmt.Errorf("%w: %d", errUnknownOperationTag, tag)
}
