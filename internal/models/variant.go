package models

import (
	"errors"
	"fmt"
	"strings"
)

// VariantKind is the declared style of a generated prompt. The set is closed:
// adding a kind means adding a constant here and a gate rule for it in the
// rubric config.
type VariantKind string

const (
	VariantDirect      VariantKind = "direct"
	VariantInteractive VariantKind = "interactive"
	VariantUnsafe      VariantKind = "unsafe"
)

var ErrUnknownVariant = errors.New("unknown variant kind")

// The generator web app labels the direct and interactive renderings
// "1-shot" and "2-shot".
var variantAliases = map[string]VariantKind{
	"direct":      VariantDirect,
	"1-shot":      VariantDirect,
	"oneshot":     VariantDirect,
	"interactive": VariantInteractive,
	"2-shot":      VariantInteractive,
	"twoshot":     VariantInteractive,
	"unsafe":      VariantUnsafe,
	"single":      VariantUnsafe,
}

func KnownVariantKinds() []VariantKind {
	return []VariantKind{VariantDirect, VariantInteractive, VariantUnsafe}
}

func (v VariantKind) Known() bool {
	switch v {
	case VariantDirect, VariantInteractive, VariantUnsafe:
		return true
	}
	return false
}

func ParseVariantKind(s string) (VariantKind, error) {
	if v, ok := variantAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v, nil
	}
	return VariantKind(s), fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}
