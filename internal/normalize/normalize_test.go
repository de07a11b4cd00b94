package normalize

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"simple", "Acme Events", 0, "acme-events"},
		{"punctuation stripped", "Acme & Co. — HQ", 0, "acme-co-hq"},
		{"diacritics folded", "Đà Nẵng Café", 0, "a-nang-cafe"},
		{"collapsed separators", "a  -  b", 0, "a-b"},
		{"truncated", "global-meetings-forum", 6, "global"},
		{"truncation drops trailing hyphen", "ab cdef", 3, "ab"},
		{"empty", "", 0, ""},
		{"only symbols", "!!!", 0, ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Slugify(tt.in, tt.maxLen))
		})
	}
}

func TestSlugifyShape(t *testing.T) {
	t.Parallel()

	got := Slugify("Acme & Co. — HQ", 0)
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9_]+(-[a-z0-9_]+)*$`), got)
	assert.NotContains(t, got, " ")
}

func TestExtractEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"embedded in free text", "Contact: Jane Doe <jane.doe@example.com>, tel 123", "jane.doe@example.com"},
		{"first match wins", "a@b.com / c@d.org", "a@b.com"},
		{"plus and percent", "sales+vn%x@resort-danang.vn", "sales+vn%x@resort-danang.vn"},
		{"no match", "call the front desk", ""},
		{"blank", "", ""},
		{"tld too short", "x@y.z", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractEmail(tt.in))
		})
	}
}

func TestParseDelegateCount(t *testing.T) {
	t.Parallel()

	intp := func(n int) *int { return &n }

	tests := []struct {
		name string
		in   string
		want *int
	}{
		{"thousands separator", "3,500 pax", intp(3500)},
		{"dot separator", "1.200", intp(1200)},
		{"plain", "700", intp(700)},
		{"range takes first number", "300-500", intp(300)},
		{"blank", "", nil},
		{"whitespace", "   ", nil},
		{"no digits", "TBC", nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseDelegateCount(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestCountryFromEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"events@meetings.sg", "Singapore"},
		{"info@malaysia-convention.com", "Malaysia"},
		{"team@bureau.hk", "Hong Kong"},
		{"secretariat@congress-asia.org", "Asia-Pacific"},
		{"hello@example.com", "International"},
		{"", "International"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CountryFromEmail(tt.in))
		})
	}
}

func TestJoinFragments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ballroom A; PAX 250; Gala dinner",
		JoinFragments([]string{"Ballroom A", "", "PAX 250", "  ", "Gala dinner"}))
	assert.Equal(t, "", JoinFragments(nil))
}
