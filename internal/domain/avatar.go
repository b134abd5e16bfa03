package domain

import (
	"fmt"
	"strings"
)

// AvatarKind discriminates how an avatar value is rendered.
type AvatarKind string

const (
	AvatarURL   AvatarKind = "url"   // value is an image URL
	AvatarGlyph AvatarKind = "glyph" // value is an emoji or short text glyph
)

// Avatar is a tagged variant decided once at write time, so renderers never
// have to sniff string shapes to tell an emoji from an image URL.
type Avatar struct {
	Kind  AvatarKind `json:"kind"`
	Value string     `json:"value"`
}

// ParseAvatar classifies a raw avatar value. Anything that is not an
// http(s) URL is treated as a glyph.
func ParseAvatar(value string) Avatar {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return Avatar{Kind: AvatarURL, Value: value}
	}
	return Avatar{Kind: AvatarGlyph, Value: value}
}

// DefaultAvatar builds the placeholder image used for users who never chose
// an avatar: a generated tile showing the first letter of the email. The
// first rune, not the first byte, so a multibyte initial stays valid UTF-8.
func DefaultAvatar(email string) Avatar {
	initial := "?"
	if r := []rune(email); len(r) > 0 {
		initial = strings.ToUpper(string(r[0]))
	}
	return Avatar{
		Kind:  AvatarURL,
		Value: fmt.Sprintf("https://placehold.co/100x100/E8E8E8/000000?text=%s", initial),
	}
}

func (a Avatar) IsZero() bool {
	return a.Kind == "" && a.Value == ""
}
