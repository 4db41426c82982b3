package ui

import "testing"

func TestStylesMatchPalettes(t *testing.T) {
	want := []string{"modern_arcade", "cozy_clean", "retro_terminal"}
	if len(Styles) != len(want) {
		t.Fatalf("expected %d styles, got %v", len(want), Styles)
	}
	for i, name := range want {
		if Styles[i] != name || !ValidStyle(name) {
			t.Fatalf("style %d: expected %q, got %v", i, name, Styles)
		}
	}
	if ValidStyle("neon") || ValidStyle("") {
		t.Fatalf("unknown styles should be rejected")
	}
}

func TestThemeForVariantFallsBack(t *testing.T) {
	got := ThemeForVariant("neon").Title.Render("x")
	if want := DefaultTheme().Title.Render("x"); got != want {
		t.Fatalf("expected default theme, got %q want %q", got, want)
	}
	if ThemeForVariant("retro_terminal").meterFrom == DefaultTheme().meterFrom {
		t.Fatalf("expected retro palette to differ from the default")
	}
}
