// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes identify the record type an ID belongs to.
const (
	PrefixMedia  = "md-"
	PrefixPreset = "fp-"
	PrefixPost   = "po-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 12

// Media returns a new media ID.
func Media() (string, error) { return GenerateWithPrefix(PrefixMedia) }

// Preset returns a new filter preset ID.
func Preset() (string, error) { return GenerateWithPrefix(PrefixPreset) }

// Post returns a new post ID.
func Post() (string, error) { return GenerateWithPrefix(PrefixPost) }

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
