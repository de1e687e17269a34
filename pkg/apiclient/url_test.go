package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildURL(t *testing.T) {
	page := 2
	var nilPage *int

	tests := []struct {
		name  string
		base  string
		path  string
		query *Query
		want  string
	}{
		{
			name: "joins with a single slash",
			base: "https://api.campos.cl///",
			path: "//properties",
			want: "https://api.campos.cl/properties",
		},
		{
			name: "adds missing slash",
			base: "https://api.campos.cl/v1",
			path: "properties",
			want: "https://api.campos.cl/v1/properties",
		},
		{
			name: "absolute path used verbatim",
			base: "https://api.campos.cl",
			path: "https://cdn.campos.cl/fotos/casa%20patronal.jpg?w=640",
			want: "https://cdn.campos.cl/fotos/casa%20patronal.jpg?w=640",
		},
		{
			name:  "array values repeat in order",
			base:  "http://api",
			path:  "/properties",
			query: NewQuery().Set("region", []string{"Maule", "Ñuble", "Biobío"}),
			want:  "http://api/properties?region=Maule&region=%C3%91uble&region=Biob%C3%ADo",
		},
		{
			name:  "nil values are skipped",
			base:  "http://api",
			path:  "/properties",
			query: NewQuery().Set("q", nil).Set("page", nilPage).Set("tags", []any{"riego", nil, "casa"}),
			want:  "http://api/properties?tags=riego&tags=casa",
		},
		{
			name:  "insertion order is kept",
			base:  "http://api",
			path:  "/properties",
			query: NewQuery().Set("sort", "price").Set("featured", true).Set("min_ha", 1.5).Set("sort", "-price"),
			want:  "http://api/properties?sort=-price&featured=true&min_ha=1.5",
		},
		{
			name:  "scalar overwrites existing occurrences",
			base:  "http://api",
			path:  "/properties?page=1&limit=10&page=9",
			query: NewQuery().Set("page", &page),
			want:  "http://api/properties?page=2&limit=10",
		},
		{
			name:  "arrays append to existing occurrences",
			base:  "http://api",
			path:  "/properties?type=parcela",
			query: NewQuery().Set("type", []string{"fundo"}),
			want:  "http://api/properties?type=parcela&type=fundo",
		},
		{
			name:  "values are form encoded",
			base:  "http://api",
			path:  "/properties",
			query: NewQuery().Set("q", "campo & río"),
			want:  "http://api/properties?q=campo+%26+r%C3%ADo",
		},
		{
			name:  "query added to absolute path",
			base:  "http://api",
			path:  "https://other.example/list#top",
			query: NewQuery().Set("limit", 5),
			want:  "https://other.example/list?limit=5#top",
		},
		{
			name:  "untouched params keep their original text",
			base:  "http://a/",
			path:  "https://x.test/p%20q?a=%zz&b=1&q=a+b",
			query: NewQuery().Set("c", 2),
			want:  "https://x.test/p%20q?a=%zz&b=1&q=a+b&c=2",
		},
		{
			name:  "replaced param is re-encoded in place",
			base:  "http://a/",
			path:  "https://x.test/list?a=%zz&page=1&b=%2F",
			query: NewQuery().Set("page", "dos días"),
			want:  "https://x.test/list?a=%zz&page=dos+d%C3%ADas&b=%2F",
		},
		{
			name:  "empty list leaves no question mark",
			base:  "http://api",
			path:  "/properties",
			query: NewQuery().Set("region", []string{}),
			want:  "http://api/properties",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildURL(tt.base, tt.path, tt.query))
		})
	}
}

func TestQuerySetKeepsPosition(t *testing.T) {
	q := NewQuery().Set("a", 1).Set("b", 2).Set("a", 3)
	assert.Equal(t, 2, q.Len())
	v, ok := q.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	var empty *Query
	assert.Equal(t, 0, empty.Len())
	_, ok = empty.Get("a")
	assert.False(t, ok)
}
