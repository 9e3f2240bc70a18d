package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestSupportedFormats(t *testing.T) {
	assert.Contains(t, New().SupportedFormats(), "txt")
}

func TestNormalise_UTF8(t *testing.T) {
	raw := domain.NewRawDocument("meeting_notes.txt", []byte("Budget approved.\nNext review in May."))

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Budget approved.\nNext review in May.", result.Text)
	assert.Equal(t, "meeting notes", result.Title)
	assert.Equal(t, EncodingUTF8, result.Metadata["encoding"])
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestDecode(t *testing.T) {
	cp949, err := korean.EUCKR.NewEncoder().Bytes([]byte("안녕하세요. 문서입니다."))
	require.NoError(t, err)

	tests := []struct {
		name         string
		input        []byte
		wantText     string
		wantEncoding string
	}{
		{
			name:         "utf-8",
			input:        []byte("plain ascii"),
			wantText:     "plain ascii",
			wantEncoding: EncodingUTF8,
		},
		{
			name:         "utf-8 korean",
			input:        []byte("한국어 텍스트"),
			wantText:     "한국어 텍스트",
			wantEncoding: EncodingUTF8,
		},
		{
			name:         "byte order mark stripped",
			input:        append([]byte{0xEF, 0xBB, 0xBF}, "hello"...),
			wantText:     "hello",
			wantEncoding: EncodingUTF8,
		},
		{
			name:         "cp949",
			input:        cp949,
			wantText:     "안녕하세요. 문서입니다.",
			wantEncoding: EncodingCP949,
		},
		{
			name:         "latin-1",
			input:        []byte{'c', 'a', 'f', 0xE9},
			wantText:     "café",
			wantEncoding: EncodingLatin1,
		},
		{
			name:         "empty",
			input:        nil,
			wantText:     "",
			wantEncoding: EncodingUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, encoding := Decode(tt.input)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantEncoding, encoding)
		})
	}
}
