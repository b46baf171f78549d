package ai

import "testing"

func TestCleanJSONString(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"material":"glass"}`, `{"material":"glass"}`},
		{"```json\n{\"material\":\"glass\"}\n```", `{"material":"glass"}`},
		{"```\n{\"material\":\"glass\"}\n```", `{"material":"glass"}`},
		{"  {\"material\":\"glass\"}  ", `{"material":"glass"}`},
	}
	for _, tc := range cases {
		if got := cleanJSONString(tc.in); got != tc.want {
			t.Errorf("cleanJSONString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
