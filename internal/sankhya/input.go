package sankhya

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxInputLength is the longest input, in characters, accepted for analysis.
const MaxInputLength = 100

var (
	ErrEmptyInput   = errors.New("please enter a word or sentence to process")
	ErrInputTooLong = fmt.Errorf("input exceeds %d character limit", MaxInputLength)
)

// Script is the writing system the input is typed in.
type Script string

const (
	Latin      Script = "latin"
	Devanagari Script = "devanagari"
	Kannada    Script = "kannada"
	Telugu     Script = "telugu"
)

// Scripts lists the supported input scripts.
var Scripts = []Script{Latin, Devanagari, Kannada, Telugu}

// ParseScript validates a script name.
func ParseScript(s string) (Script, error) {
	for _, sc := range Scripts {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", fmt.Errorf("unknown script %q (valid: latin, devanagari, kannada, telugu)", s)
}

// ImplicitVowel is the inherent vowel a consonant carries in this script.
// Scripts without their own entry share the Kannada letter.
func (s Script) ImplicitVowel() string {
	switch s {
	case Latin:
		return "a"
	case Devanagari:
		return "अ"
	default:
		return "ಅ"
	}
}

// InputMode selects how raw input text is split into words.
type InputMode string

const (
	WordMode     InputMode = "word"
	SentenceMode InputMode = "sentence"
)

// ParseInputMode validates an input mode name.
func ParseInputMode(s string) (InputMode, error) {
	switch InputMode(s) {
	case WordMode, SentenceMode:
		return InputMode(s), nil
	}
	return "", fmt.Errorf("unknown input type %q (valid: word, sentence)", s)
}

// PrepareInput splits text into the words submitted to the tokenizer. Word
// mode removes all whitespace and yields a single word; sentence mode splits
// on runs of whitespace. Length is counted in characters after word-mode
// stripping.
func PrepareInput(text string, mode InputMode) ([]string, error) {
	if mode == WordMode {
		text = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, text)
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if utf8.RuneCountInString(text) > MaxInputLength {
		return nil, ErrInputTooLong
	}

	switch mode {
	case WordMode:
		return []string{text}, nil
	case SentenceMode:
		return strings.Fields(text), nil
	}
	return nil, fmt.Errorf("unknown input type %q", mode)
}
