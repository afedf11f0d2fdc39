// Package synth provides the text-to-speech synthesis gateway.
package synth

import "context"

// Gateway converts text into mono float32 samples at the daemon's fixed
// sample rate. Synthesize is synchronous and blocks the caller for the whole
// generation; the playback controller accepts that because short utterances
// generate quickly once the model is warm.
type Gateway interface {
	Synthesize(ctx context.Context, text, voice string, speed float64) ([]float32, error)
}

// LangCode derives the synthesis language code from the voice prefix
// (a=American, b=British, j=Japanese, z=Mandarin). Unknown prefixes fall
// back to American English.
func LangCode(voice string) string {
	if voice != "" {
		switch voice[0] {
		case 'a', 'b', 'j', 'z':
			return string(voice[0])
		}
	}
	return "a"
}
