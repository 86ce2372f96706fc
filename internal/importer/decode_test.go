package importer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func decodeAll(t *testing.T, in []byte) string {
	t.Helper()

	r, err := utf8Reader(bytes.NewReader(in))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestUTF8Reader(t *testing.T) {
	const text = "Descrição;Montante\nCafé;12,50\n"

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	windows1252, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	tests := []struct {
		name string
		in   []byte
	}{
		{name: "UTF8Passthrough", in: []byte(text)},
		{name: "UTF8BOM", in: append([]byte{0xEF, 0xBB, 0xBF}, text...)},
		{name: "UTF16LE", in: utf16le},
		{name: "Windows1252", in: windows1252},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, text, decodeAll(t, tt.in))
		})
	}
}

func TestUTF8Reader_RuneAcrossPeekWindow(t *testing.T) {
	// The "ç" straddles the end of the sniffed prefix.
	text := strings.Repeat("a", sniffSize-1) + "ç;1\n"

	assert.Equal(t, text, decodeAll(t, []byte(text)))
}
