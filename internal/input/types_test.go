package input

import "testing"

func TestActionBuilders(t *testing.T) {
	base := NewAction("rst.table.create").WithArg("rows", 3)
	a := base.WithArg("cols", 2.0).WithText("a,b").WithCount(2).FromSource(SourceScript)

	if a.Name != "rst.table.create" || a.Args.Text != "a,b" || a.Count != 2 || a.Source != SourceScript {
		t.Errorf("action = %+v", a)
	}
	if got := a.Args.GetInt("rows"); got != 3 {
		t.Errorf("rows = %d, want 3", got)
	}
	if got := a.Args.GetInt("cols"); got != 2 {
		t.Errorf("cols = %d, want 2 from float64", got)
	}
	if _, ok := base.Args.Get("cols"); ok {
		t.Error("WithArg modified the original action")
	}
}

func TestActionArgsAccessors(t *testing.T) {
	args := ActionArgs{Extra: map[string]interface{}{
		"name":    "x",
		"enabled": true,
		"count":   int64(7),
	}}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"string", args.GetString("name"), "x"},
		{"string of wrong type", args.GetString("enabled"), ""},
		{"bool", args.GetBool("enabled"), true},
		{"missing bool", args.GetBool("nothing"), false},
		{"int64", args.GetInt("count"), 7},
		{"missing int", args.GetInt("nothing"), 0},
		{"nil extra", ActionArgs{}.GetString("name"), ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %#v, want %#v", tc.got, tc.want)
			}
		})
	}
}

func TestActionSourceString(t *testing.T) {
	tests := map[ActionSource]string{
		SourceKeyboard:    "keyboard",
		SourceCommand:     "command",
		SourceScript:      "script",
		SourceInternal:    "internal",
		ActionSource(200): "unknown",
	}
	for src, want := range tests {
		if got := src.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", src, got, want)
		}
	}
}
