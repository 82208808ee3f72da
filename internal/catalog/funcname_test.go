package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDefaultFunc(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare call", in: "now()", want: "now"},
		{name: "call with args", in: "nextval('users_id_seq'::regclass)", want: "nextval"},
		{name: "schema qualified", in: "public.uuid_generate_v4()", want: "uuid_generate_v4"},
		{name: "leading whitespace", in: "  now()", want: "now"},
		{name: "space before paren", in: "now ()", want: "now"},
		{name: "mixed case", in: "NOW()", want: "NOW"},
		{name: "dollar in identifier", in: "fn$v2()", want: "fn$v2"},
		{name: "literal default", in: "'new'::text", want: ""},
		{name: "numeric default", in: "0", want: ""},
		{name: "cast of call is not leading", in: "('x'::text || now())", want: ""},
		{name: "operator expression", in: "a + b", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDefaultFunc(tt.in))
		})
	}
}
