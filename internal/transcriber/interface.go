package transcriber

import "context"

// Transcriber converts one participant's combined audio into text via the
// external speech-to-text service.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
