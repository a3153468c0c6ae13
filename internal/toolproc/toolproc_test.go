package toolproc

import (
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTool(t *testing.T) {
	paths := []string{`C:\Advantech\DAQNavi\DeviceManager(Console)\dndev.exe`, "/opt/advantech/tools/dndev"}

	tests := []struct {
		name      string
		exe, proc string
		want      bool
	}{
		{"linux exe", "/opt/advantech/tools/dndev", "dndev", true},
		{"linux name only", "", "dndev", true},
		{"windows name", "", "DNDEV.EXE", true},
		{"other program", "/usr/bin/bash", "bash", false},
		{"similar name", "/usr/bin/dndevd", "dndevd", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTool(tt.exe, tt.proc, paths))
		})
	}

	assert.False(t, isTool("/opt/advantech/tools/dndev", "dndev", []string{""}))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "dndev.exe", baseName(`C:\Advantech\DAQNavi\DeviceManager(Console)\dndev.exe`))
	assert.Equal(t, "dndev", baseName("/opt/advantech/tools/dndev"))
	assert.Equal(t, "dndev", baseName("dndev"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcdefg...", truncateString(strings.Repeat("abcdefg", 5), 10))

	long := `C:\工具\dndev.exe /ecns 裝置管理員`
	got := truncateString(long, 12)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, `C:\工具\dnd...`, got)
	assert.Equal(t, "中文", truncateString("中文", 2))
}

func TestAge(t *testing.T) {
	now := time.Now()
	p := ToolProcess{Started: now.Add(-90*time.Second - 300*time.Millisecond)}

	assert.Equal(t, 90*time.Second, p.Age(now))
	assert.Equal(t, time.Duration(0), ToolProcess{}.Age(now))
}

func TestFindSelf(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)

	found, err := Find(exe)
	require.NoError(t, err)

	var pids []int32
	for _, p := range found {
		pids = append(pids, p.PID)
	}
	assert.Contains(t, pids, int32(os.Getpid()))
}
