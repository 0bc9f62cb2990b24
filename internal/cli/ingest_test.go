package cli

import (
	"testing"

	"github.com/dgoldman0/scholar.app/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseAuthor(t *testing.T) {
	tests := []struct {
		arg  string
		want models.Author
	}{
		{"did:plc:abc123", models.Author{DID: "did:plc:abc123"}},
		{"did:plc:abc123,Jane Doe", models.Author{DID: "did:plc:abc123", Name: "Jane Doe"}},
		{
			"did:plc:abc123,Jane Doe,0000-0002-1825-0097",
			models.Author{DID: "did:plc:abc123", Name: "Jane Doe", ORCID: "0000-0002-1825-0097"},
		},
		{" did:plc:abc123 , Jane Doe ", models.Author{DID: "did:plc:abc123", Name: "Jane Doe"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseAuthor(tt.arg), tt.arg)
	}
}

func TestParseAsset(t *testing.T) {
	tests := []struct {
		arg  string
		want models.AssetInput
	}{
		{"data.csv", models.AssetInput{Path: "data.csv"}},
		{"data.csv,raw measurements", models.AssetInput{Path: "data.csv", Description: "raw measurements"}},
		{"data.csv,notes, with comma", models.AssetInput{Path: "data.csv", Description: "notes, with comma"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseAsset(tt.arg), tt.arg)
	}
}
