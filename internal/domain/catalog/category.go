package catalog

import "strings"

// CategoryKind is the display flavour of a category label
type CategoryKind string

const (
	KindNone       CategoryKind = ""
	KindSoft       CategoryKind = "soft"
	KindHard       CategoryKind = "hard"
	KindOther      CategoryKind = "other"
	KindAdditional CategoryKind = "additional"
	KindButton     CategoryKind = "button"
)

var categoryKinds = map[string]CategoryKind{
	"софт-скил":      KindSoft,
	"хард-скил":      KindHard,
	"другое":         KindOther,
	"дополнительное": KindAdditional,
	"кнопка":         KindButton,
}

// KindOf maps a category label to its kind. Matching ignores case and
// surrounding or inner spaces; unknown labels map to KindNone.
func KindOf(label string) CategoryKind {
	key := strings.ToLower(strings.Join(strings.Fields(label), ""))
	return categoryKinds[key]
}

// String returns the string representation of CategoryKind
func (k CategoryKind) String() string {
	if k == KindNone {
		return "none"
	}
	return string(k)
}
