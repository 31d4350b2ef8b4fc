// Package keygen provides storage-key generation strategies for assets.
package keygen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator defines the interface for storage-key generation strategies.
type Generator interface {
	// GenerateKey creates a storage key for an uploaded file. Keys must
	// be unique per call; the blob store never overwrites silently.
	GenerateKey(fileName string) string
}

// TimestampGenerator produces keys of the form
//
//	20060102T150405.000_ab12cd34_original_name.txt
//
// A millisecond UTC timestamp keeps keys sortable by upload time, and the
// random 8-hex suffix makes two uploads of the same name in the same
// millisecond distinct.
type TimestampGenerator struct {
	// Now is the clock; defaults to time.Now. Tests override it.
	Now func() time.Time
}

// NewTimestampGenerator returns the default key generation strategy.
func NewTimestampGenerator() *TimestampGenerator {
	return &TimestampGenerator{Now: time.Now}
}

func (g *TimestampGenerator) GenerateKey(fileName string) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	ts := now().UTC().Format("20060102T150405.000")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s", ts, suffix, SanitizeFileName(fileName))
}

// CustomFuncGenerator allows callers to provide their own key function.
type CustomFuncGenerator struct {
	GenerateFunc func(fileName string) string
}

func NewCustomFuncGenerator(fn func(fileName string) string) *CustomFuncGenerator {
	return &CustomFuncGenerator{GenerateFunc: fn}
}

func (g *CustomFuncGenerator) GenerateKey(fileName string) string {
	return g.GenerateFunc(fileName)
}

// SanitizeFileName replaces characters that are problematic in object
// keys or filesystem paths.
func SanitizeFileName(fileName string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(fileName)
}
