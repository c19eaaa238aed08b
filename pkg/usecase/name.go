package usecase

import (
	"fmt"
	"slices"
	"strings"

	"github.com/balatro-mod-manager/bmm/pkg/domain/interfaces"
)

const (
	fallbackNamePrefix = "mod_"
	minNameLen         = 2
)

// genericNames are branch names GitHub archive URLs end with; they say
// nothing about the mod
var genericNames = []string{"main", "master"}

// ResolveName derives the folder name of a mod. A non-blank explicit name
// wins. Otherwise the last URL segment up to its first dot is used, unless
// it is generic or too short, in which case a timestamped name is built.
// Derived names are not checked against installed mods.
func ResolveName(explicit, url string, clock interfaces.Clock) string {
	if name := strings.TrimSpace(explicit); name != "" {
		return name
	}

	segment := url
	if i := strings.LastIndex(url, "/"); i >= 0 {
		segment = url[i+1:]
	}
	candidate, _, _ := strings.Cut(segment, ".")

	if slices.Contains(genericNames, candidate) || len(candidate) <= minNameLen {
		return fmt.Sprintf("%s%d", fallbackNamePrefix, clock.Now().Unix())
	}
	return candidate
}
