package arg

import "testing"

func TestHandleKeyword(t *testing.T) {
	cases := []struct {
		name   string
		args   []string
		expect string
	}{
		{
			name:   "no args",
			args:   nil,
			expect: "",
		},
		{
			name:   "single word",
			args:   []string{"anna"},
			expect: "anna",
		},
		{
			name:   "several words",
			args:   []string{"anna", "smith"},
			expect: "anna smith",
		},
		{
			name:   "surrounding blanks",
			args:   []string{" ", "+8613800000001", " "},
			expect: "+8613800000001",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HandleKeyword(tc.args)
			if got != tc.expect {
				t.Fatalf("HandleKeyword(%v) = %q, want %q", tc.args, got, tc.expect)
			}
		})
	}
}
