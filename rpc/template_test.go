package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		placeholders []Placeholder
	}{
		{
			name: "given literal path, then no placeholders",
			path: "/v1/flip",
		},
		{
			name: "given pattern placeholder, then keeps pattern",
			path: "/v1/{name=projects/*/documents/*}/{message_id}",
			placeholders: []Placeholder{
				{Path: FieldPath{"name"}, Pattern: "projects/*/documents/*"},
				{Path: FieldPath{"message_id"}},
			},
		},
		{
			name: "given dotted placeholder, then splits field path",
			path: "/v1/{book.shelf.name}:archive",
			placeholders: []Placeholder{
				{Path: FieldPath{"book", "shelf", "name"}},
			},
		},
		{
			name: "given adjacent placeholders, then both parsed",
			path: "{a}{b=**}",
			placeholders: []Placeholder{
				{Path: FieldPath{"a"}},
				{Path: FieldPath{"b"}, Pattern: "**"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseTemplate(tt.path)
			require.NoError(t, err)
			assert.Equal(t, len(tt.placeholders), len(tmpl.Placeholders()))
			if len(tt.placeholders) > 0 {
				assert.Equal(t, tt.placeholders, tmpl.Placeholders())
			}
			assert.Equal(t, tt.path, tmpl.String())
		})
	}
}

func TestParseTemplate_Invalid(t *testing.T) {
	for _, path := range []string{
		"/v1/{name",
		"/v1/name}",
		"/v1/{a{b}}",
		"/v1/{}",
		"/v1/{=x}",
		"/v1/{a..b}",
		"/v1/{.a}",
	} {
		t.Run(path, func(t *testing.T) {
			_, err := ParseTemplate(path)
			assert.ErrorIs(t, err, ErrInvalidTemplate)
		})
	}
}

func TestPathTemplate_MapFieldPaths(t *testing.T) {
	tmpl := MustParseTemplate("/v1/{book_ref.shelf_id=shelves/*}/books")

	mapped := tmpl.MapFieldPaths(func(p FieldPath) FieldPath {
		for i := range p {
			p[i] = p[i] + "X"
		}
		return p
	})

	assert.Equal(t, "/v1/{book_refX.shelf_idX=shelves/*}/books", mapped.String())
	assert.Equal(t, "/v1/{book_ref.shelf_id=shelves/*}/books", tmpl.String())
}

func TestMustParseTemplate_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseTemplate("/v1/{") })
}
