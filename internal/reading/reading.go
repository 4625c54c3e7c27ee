// Package reading annotates read-aloud lines with kana readings using a morphological
// analyzer, so speech engines and young readers get the intended pronunciation.
package reading

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/toc-cloud/toc-cloud/internal/readaloud"
)

// Script selects the kana used for readings.
type Script string

const (
	Katakana Script = "katakana"
	Hiragana Script = "hiragana"
)

// Reader converts Japanese text to kana.
type Reader struct {
	tok *tokenizer.Tokenizer
}

// New builds a Reader with the IPA dictionary.
func New() (*Reader, error) {
	tok, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer: %w", err)
	}
	return &Reader{tok: tok}, nil
}

var (
	defaultReader    *Reader
	defaultReaderErr error
	defaultOnce      sync.Once
)

// Default returns a process-wide Reader. Loading the dictionary is slow, so it happens once.
func Default() (*Reader, error) {
	defaultOnce.Do(func() {
		defaultReader, defaultReaderErr = New()
	})
	return defaultReader, defaultReaderErr
}

// Katakana returns the reading of text in katakana. Tokens without a dictionary
// reading (Latin letters, digits, unknown words) are kept as written.
func (r *Reader) Katakana(text string) string {
	var sb strings.Builder
	for _, t := range r.tok.Tokenize(text) {
		if reading, ok := t.Reading(); ok && reading != "*" && reading != "" {
			sb.WriteString(reading)
			continue
		}
		sb.WriteString(t.Surface)
	}
	return sb.String()
}

// Read returns the reading of text in the requested script.
func (r *Reader) Read(text string, script Script) string {
	kana := r.Katakana(text)
	if script == Hiragana {
		return ToHiragana(kana)
	}
	return kana
}

// Annotate fills Reading on every line of vm from its SpeakText.
func (r *Reader) Annotate(vm *readaloud.VM, script Script) {
	for i := range vm.Lines {
		src := vm.Lines[i].SpeakText
		if src == "" {
			src = vm.Lines[i].Text
		}
		vm.Lines[i].Reading = r.Read(src, script)
	}
}

// ToHiragana maps katakana letters to hiragana and leaves everything else alone.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - 0x60
		}
		return r
	}, s)
}

// ParseScript maps user input onto a Script. Anything unrecognised is katakana.
func ParseScript(s string) Script {
	if Script(strings.ToLower(strings.TrimSpace(s))) == Hiragana {
		return Hiragana
	}
	return Katakana
}
