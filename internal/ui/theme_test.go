package ui

import (
	"testing"

	"github.com/five82/atlas/internal/prefs"
)

func TestGetTheme(t *testing.T) {
	if got := GetTheme(prefs.ThemeLight).Name; got != prefs.ThemeLight {
		t.Fatalf("GetTheme(light).Name = %q, want light", got)
	}
	if got := GetTheme(prefs.ThemeDark).Name; got != prefs.ThemeDark {
		t.Fatalf("GetTheme(dark).Name = %q, want dark", got)
	}
	if got := GetTheme("sepia").Name; got != prefs.ThemeDark {
		t.Fatalf("GetTheme(invalid).Name = %q, want dark", got)
	}
}

func TestThemesDefineEveryColor(t *testing.T) {
	for _, th := range []Theme{darkTheme(), lightTheme()} {
		colors := map[string]string{
			"Background":    th.Background,
			"Surface":       th.Surface,
			"SurfaceAlt":    th.SurfaceAlt,
			"SelectionBg":   th.SelectionBg,
			"SelectionText": th.SelectionText,
			"Border":        th.Border,
			"Text":          th.Text,
			"Muted":         th.Muted,
			"Faint":         th.Faint,
			"Accent":        th.Accent,
			"Success":       th.Success,
			"Warning":       th.Warning,
			"Danger":        th.Danger,
			"Info":          th.Info,
		}
		for name, value := range colors {
			if len(value) != 7 || value[0] != '#' {
				t.Fatalf("%s theme %s = %q, want #rrggbb", th.Name, name, value)
			}
		}
	}
}
