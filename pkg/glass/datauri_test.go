package glass

import (
	"strings"
	"testing"

	"github.com/matzehuels/liquidglass/pkg/errors"
)

func TestEncodeDataURI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", DataURIPrefix},
		{"unreserved kept", "AZaz09-_.!~*'()", DataURIPrefix + "AZaz09-_.!~*'()"},
		{"markup", `<svg a="1">`, DataURIPrefix + "%3Csvg%20a%3D%221%22%3E"},
		{"reserved", "#%&+/:;=?@,", DataURIPrefix + "%23%25%26%2B%2F%3A%3B%3D%3F%40%2C"},
		{"whitespace", " \n\t", DataURIPrefix + "%20%0A%09"},
		{"utf-8", "é✓", DataURIPrefix + "%C3%A9%E2%9C%93"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeDataURI(tt.in); got != tt.want {
				t.Errorf("EncodeDataURI(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	g := ResolveGeometry(GeometryConfig{Width: 336, Height: 96, Radius: 16, Border: 0.07})
	inputs := []string{
		"",
		"plain",
		`<rect fill="hsl(0 0% 50% / 0.93)" />`,
		"a & b < c > d \"quoted\" 'single'\nnext line\r\n",
		"100% + 50%",
		"日本語 ✓ émoji 🧊",
		"\x00\x01\xff",
		BuildDisplacementSVG(g, dockTexture),
	}

	for _, in := range inputs {
		uri := EncodeDataURI(in)
		if !strings.HasPrefix(uri, DataURIPrefix) {
			t.Fatalf("missing prefix: %q", uri)
		}
		got, err := DecodeDataURI(uri)
		if err != nil {
			t.Fatalf("DecodeDataURI(%q) error: %v", uri, err)
		}
		if got != in {
			t.Errorf("round trip mismatch:\n got %q\nwant %q", got, in)
		}
	}
}

func TestEncodeDataURIPayloadAlphabet(t *testing.T) {
	g := ResolveGeometry(GeometryConfig{Width: 140, Height: 280, Radius: 80, Border: 0.15})
	payload := strings.TrimPrefix(EncodeDataURI(BuildDisplacementSVG(g, dockTexture)), DataURIPrefix)

	for i := 0; i < len(payload); i++ {
		if c := payload[i]; c != '%' && !unreserved(c) {
			t.Fatalf("payload byte %d is %q, want unreserved or escape", i, c)
		}
	}
}

func TestDecodeDataURIErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no prefix", "%3Csvg%3E"},
		{"wrong media type", "data:image/png,abc"},
		{"bad escape", DataURIPrefix + "%zz"},
		{"truncated escape", DataURIPrefix + "abc%4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDataURI(tt.in)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidDataURI) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidDataURI)
			}
		})
	}
}
