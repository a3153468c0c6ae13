package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantOK   bool
		wantAddr string
		wantLine string
	}{
		{
			name:     "link-local with zone",
			text:     "Device: iDAQ-974, IP:fe80::76fe:48ff:febd:fe0%9,\nOther line",
			wantOK:   true,
			wantAddr: "fe80::76fe:48ff:febd:fe0%9",
			wantLine: "Device: iDAQ-974, IP:fe80::76fe:48ff:febd:fe0%9,",
		},
		{
			name:     "ipv4 after header lines",
			text:     "DAQNavi Device Manager\r\nScanning...\r\n[0] iDAQ974 BoardID=1, IP: 192.168.1.20, MAC:00-D0-C9\r\n",
			wantOK:   true,
			wantAddr: "192.168.1.20",
			wantLine: "[0] iDAQ974 BoardID=1, IP: 192.168.1.20, MAC:00-D0-C9",
		},
		{
			name:     "address ends at whitespace",
			text:     "IDAQ-974 IP:10.0.0.5 online",
			wantOK:   true,
			wantAddr: "10.0.0.5",
			wantLine: "IDAQ-974 IP:10.0.0.5 online",
		},
		{
			name:     "old mac line endings",
			text:     "header\riDaq974 IP:10.1.1.1,\rtrailer",
			wantOK:   true,
			wantAddr: "10.1.1.1",
			wantLine: "iDaq974 IP:10.1.1.1,",
		},
		{
			name:     "ideographic space ends address",
			text:     "iDAQ-974 IP:10.0.0.5\u3000裝置在線",
			wantOK:   true,
			wantAddr: "10.0.0.5",
			wantLine: "iDAQ-974 IP:10.0.0.5\u3000裝置在線",
		},
		{
			name:     "no-break space ends address",
			text:     "iDAQ-974 IP:10.0.0.5\u00a0online",
			wantOK:   true,
			wantAddr: "10.0.0.5",
			wantLine: "iDAQ-974 IP:10.0.0.5\u00a0online",
		},
		{
			name:     "unit separator ends address",
			text:     "iDAQ-974 IP:10.0.0.5\x1fonline",
			wantOK:   true,
			wantAddr: "10.0.0.5",
			wantLine: "iDAQ-974 IP:10.0.0.5\x1fonline",
		},
		{
			name:     "vertical tab ends address and line",
			text:     "iDAQ-974 IP:10.0.0.5\vonline",
			wantOK:   true,
			wantAddr: "10.0.0.5",
			wantLine: "iDAQ-974 IP:10.0.0.5",
		},
		{
			name:     "ideographic space before address is skipped",
			text:     "iDAQ-974 IP:\u300010.0.0.5,",
			wantOK:   true,
			wantAddr: "10.0.0.5",
			wantLine: "iDAQ-974 IP:\u300010.0.0.5,",
		},
		{
			name:     "empty IP field falls through to the next one",
			text:     "iDAQ-974 IP: , IP:10.0.0.6,",
			wantOK:   true,
			wantAddr: "10.0.0.6",
			wantLine: "iDAQ-974 IP: , IP:10.0.0.6,",
		},
		{
			name:   "empty IP field at end of line",
			text:   "iDAQ-974 IP:   ",
			wantOK: false,
		},
		{
			name:   "no device",
			text:   "No devices found",
			wantOK: false,
		},
		{
			name:   "address on a non-device line only",
			text:   "USB-4716 IP:10.0.0.9,\niDAQ-815 IP:10.0.0.10,",
			wantOK: false,
		},
		{
			name:   "lowercase ip label is not an address",
			text:   "iDAQ-974 ip:10.0.0.5,",
			wantOK: false,
		},
		{
			name:   "empty",
			text:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, DeviceMatch{}, got)
				return
			}
			assert.Equal(t, tt.wantAddr, got.Address)
			assert.Equal(t, tt.wantLine, got.SourceLine)
		})
	}
}

func TestExtractDeviceNameIsCaseInsensitive(t *testing.T) {
	for _, name := range []string{"idaq974", "IDAQ-974", "iDaq974", "iDAQ-974", "idaq-974"} {
		got, ok := Extract("slot 0: " + name + " IP:fe80::1%3,")
		require.True(t, ok, name)
		assert.Equal(t, "fe80::1%3", got.Address, name)
	}
}

func TestExtractStopsAtFirstDeviceLine(t *testing.T) {
	text := "iDAQ-974 (no link)\niDAQ-974 IP:192.168.0.7,\n"

	_, ok := Extract(text)

	assert.False(t, ok)
}

func TestExtractStopsAtFirstDeviceLineForAnyLineBreak(t *testing.T) {
	for _, sep := range []string{"\n", "\r\n", "\r", "\v", "\f", "\x1c", "\x1d", "\x1e", "\u0085", "\u2028", "\u2029"} {
		_, ok := Extract("iDAQ-974 (no link)" + sep + "iDAQ-974 IP:10.0.0.7,")
		assert.False(t, ok, "%q", sep)

		got, ok := Extract("header" + sep + "iDAQ-974 IP:10.0.0.7," + sep + "trailer")
		require.True(t, ok, "%q", sep)
		assert.Equal(t, "iDAQ-974 IP:10.0.0.7,", got.SourceLine, "%q", sep)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"one\n", []string{"one"}},
		{"a\r\nb\rc\nd", []string{"a", "b", "c", "d"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"a\r\n\r\nb", []string{"a", "", "b"}},
		{"a\u2028b\u0085c\fd", []string{"a", "b", "c", "d"}},
		{"中文\n裝置", []string{"中文", "裝置"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitLines(tt.in), "%q", tt.in)
	}
}

func TestExtractReturnsFirstOfSeveralAddresses(t *testing.T) {
	text := "iDAQ-974 IP:192.168.0.7,\niDAQ-974 IP:192.168.0.8,\n"

	got, ok := Extract(text)

	require.True(t, ok)
	assert.Equal(t, "192.168.0.7", got.Address)
}
