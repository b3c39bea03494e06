package mpesa

import "testing"

func TestMsisdn(t *testing.T) {
	cases := []struct {
		phone string
		want  string
	}{
		{"+254712345678", "254712345678"},
		{"254712345678", "254712345678"},
	}
	for _, c := range cases {
		if got := msisdn(c.phone); got != c.want {
			t.Errorf("msisdn(%q) = %q, want %q", c.phone, got, c.want)
		}
	}
}
