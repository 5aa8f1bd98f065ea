package cache

import "fmt"

// Variant selects how the ways of a set come into existence.
type Variant int

const (
	// VariantValidBit creates every way at construction time with its valid
	// bit cleared. Empty ways are always filled before any eviction.
	VariantValidBit Variant = iota

	// VariantTagOnly adds ways as tags arrive and tracks no valid bit. A set
	// evicts once it holds as many tags as it has ways.
	VariantTagOnly
)

func (v Variant) String() string {
	switch v {
	case VariantValidBit:
		return "valid-bit"
	case VariantTagOnly:
		return "tag-only"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ParseVariant converts the name printed by Variant.String back to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "valid-bit":
		return VariantValidBit, nil
	case "tag-only":
		return VariantTagOnly, nil
	default:
		return 0, fmt.Errorf(
			"unknown cache variant %q, want valid-bit or tag-only", s)
	}
}

// Set implements pflag.Value so a Variant can be bound to a flag directly.
func (v *Variant) Set(s string) error {
	parsed, err := ParseVariant(s)
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}

// Type implements pflag.Value.
func (v *Variant) Type() string {
	return "variant"
}
