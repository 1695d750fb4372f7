package readterm

import "testing"

func TestDetectTerminalCapabilities(t *testing.T) {
	caps := DetectTerminalCapabilities()

	if caps.IsTerminal == caps.IsRedirected {
		t.Errorf("IsTerminal = %v and IsRedirected = %v, want exactly one",
			caps.IsTerminal, caps.IsRedirected)
	}
	if caps.Width <= 0 || caps.Height <= 0 {
		t.Errorf("size = %dx%d, want positive dimensions", caps.Width, caps.Height)
	}
}

func TestSettingsForTerminalUsesHostSize(t *testing.T) {
	settings := SettingsForTerminal()
	caps := DetectTerminalCapabilities()

	if caps.IsTerminal {
		if settings.ColumnCount != caps.Width || settings.LineCount != caps.Height {
			t.Errorf("settings size = %dx%d, caps = %dx%d",
				settings.ColumnCount, settings.LineCount, caps.Width, caps.Height)
		}
	} else {
		defaults := DefaultSettings()
		if settings.ColumnCount != defaults.ColumnCount || settings.LineCount != defaults.LineCount {
			t.Errorf("settings size = %dx%d, want defaults",
				settings.ColumnCount, settings.LineCount)
		}
	}
}
