package goquery_test

import (
	"testing"

	"github.com/fwojciec/ftml/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextExtractor_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "collapses whitespace",
			html: "<span>A\n   <b>group</b>\t is</span>  here",
			want: "A group is here",
		},
		{
			name: "uses formula alttext",
			html: `Let <math alttext="x<1"><mi>x</mi><mo>&lt;</mo><mn>1</mn></math> hold`,
			want: "Let x<1 hold",
		},
		{
			name: "keeps formula text without alttext",
			html: `<math><semantics><mi>n</mi><annotation encoding="application/x-tex">n</annotation></semantics></math> elements`,
			want: "n elements",
		},
		{
			name: "drops hidden markup",
			html: `<span data-ftml-comp="">f</span><span style="display:none">arg</span> and <span hidden>secret</span>more`,
			want: "f and more",
		},
		{
			name: "drops scripts and styles",
			html: `<style>p{color:red}</style><p>Title</p><script>alert(1)</script>`,
			want: "Title",
		},
		{
			name: "returns nothing for blank input",
			html: " \n ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := goquery.NewTextExtractor().Text(tt.html)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
