package streamio

import (
	"strings"
	"testing"
)

func TestGrowReadMax(t *testing.T) {
	text := "XZXdewdieded3oifdjfrf4frewfrfreferwfgrewfreferferfdedoidqjwqdjqedo3qjhd3hqdiwqehdro3eidhewdiehdbweqdgewdgewdedewgdbe"

	b, err := GrowReadMax(strings.NewReader(text), 10, 4)
	if err != nil {
		t.Fatalf("GrowReadMax: %v", err)
	}
	if got := string(b); got != text[:10] {
		t.Fatalf("GrowReadMax: got %q, want %q", got, text[:10])
	}
}

func TestGrowReadMaxNonPositiveGrowUsesLimit(t *testing.T) {
	text := "short"

	b, err := GrowReadMax(strings.NewReader(text), int64(len(text)), 0)
	if err != nil {
		t.Fatalf("GrowReadMax: %v", err)
	}
	if string(b) != text {
		t.Fatalf("GrowReadMax: got %q, want %q", b, text)
	}
}
