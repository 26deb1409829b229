package change

import "testing"

func TestStatement_Format(t *testing.T) {
	tests := []struct {
		name string
		stmt Statement
		want string
	}{
		{"sql", SQLStatement("ALTER TABLE person DROP COLUMN a"), "ALTER TABLE person DROP COLUMN a;"},
		{"comment", Comment("pt-online-schema-change --execute"), "-- pt-online-schema-change --execute"},
		{"multi-line comment", Comment("first\nsecond"), "-- first\n-- second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stmt.Format(";"); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
