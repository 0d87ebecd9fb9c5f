package config

import (
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("CRAWLER_TEST_STRING", "value")

	if got := GetEnvString("CRAWLER_TEST_STRING", "default"); got != "value" {
		t.Errorf("GetEnvString() = %q, want %q", got, "value")
	}
	if got := GetEnvString("CRAWLER_TEST_UNSET", "default"); got != "default" {
		t.Errorf("GetEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset", "", 7},
		{"valid", "42", 42},
		{"padded", " 13 ", 13},
		{"invalid", "12abc", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CRAWLER_TEST_INT", tt.value)
			if got := GetEnvInt("CRAWLER_TEST_INT", 7); got != tt.want {
				t.Errorf("GetEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   bool
		want  bool
	}{
		{"unset", "", true, true},
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"false", "FALSE", true, false},
		{"invalid", "yes please", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CRAWLER_TEST_BOOL", tt.value)
			if got := GetEnvBool("CRAWLER_TEST_BOOL", tt.def); got != tt.want {
				t.Errorf("GetEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("CRAWLER_TEST_DURATION", "1m30s")
	if got := GetEnvDuration("CRAWLER_TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("GetEnvDuration() = %s, want 1m30s", got)
	}

	t.Setenv("CRAWLER_TEST_DURATION", "90")
	if got := GetEnvDuration("CRAWLER_TEST_DURATION", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration() = %s, want default 1s", got)
	}
}

func TestGetEnvStringList(t *testing.T) {
	def := []string{"video/mp4"}

	t.Setenv("CRAWLER_TEST_LIST", " image/png, ,video/webm ")
	got := GetEnvStringList("CRAWLER_TEST_LIST", def)
	if len(got) != 2 || got[0] != "image/png" || got[1] != "video/webm" {
		t.Errorf("GetEnvStringList() = %v", got)
	}

	t.Setenv("CRAWLER_TEST_LIST", " , ")
	got = GetEnvStringList("CRAWLER_TEST_LIST", def)
	if len(got) != 1 || got[0] != "video/mp4" {
		t.Errorf("GetEnvStringList() = %v, want default", got)
	}
}
