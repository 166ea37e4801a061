package render

import (
	"strings"
	"testing"
)

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "rewrites root tag",
			in:   `<?xml version="1.0"?><svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`,
			want: `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`,
		},
		{
			name: "no viewBox",
			in:   `<svg width="10" height="10"><g/></svg>`,
			want: `<svg width="10" height="10"><g/></svg>`,
		},
		{
			name: "zero size",
			in:   `<svg viewBox="0 0 0 10"></svg>`,
			want: `<svg viewBox="0 0 0 10"></svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(NormalizeViewBox([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("NormalizeViewBox()\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox_OnlyRootTag(t *testing.T) {
	in := `<svg viewBox="0 0 100 50"><svg width="3"></svg></svg>`
	got := string(NormalizeViewBox([]byte(in)))
	if strings.Count(got, `viewBox="0 0 100.00 50.00"`) != 1 {
		t.Errorf("root tag not rewritten: %s", got)
	}
	if !strings.Contains(got, `<svg width="3">`) {
		t.Errorf("nested svg changed: %s", got)
	}
}
