package command

import (
	"reflect"
	"testing"
)

func TestParse_CommandOnly(t *testing.T) {
	res := Parse("LOOK")
	if res.Command != "look" {
		t.Errorf("Command = %q, want %q", res.Command, "look")
	}
	if len(res.Args) != 0 || res.RawArgs != "" {
		t.Errorf("expected no args, got %v / %q", res.Args, res.RawArgs)
	}
}

func TestParse_CommandWithArgs(t *testing.T) {
	res := Parse("attack  giant rat")
	if res.Command != "attack" {
		t.Errorf("Command = %q, want %q", res.Command, "attack")
	}
	if want := []string{"giant", "rat"}; !reflect.DeepEqual(res.Args, want) {
		t.Errorf("Args = %v, want %v", res.Args, want)
	}
	if res.RawArgs != "giant rat" {
		t.Errorf("RawArgs = %q, want %q", res.RawArgs, "giant rat")
	}
}

func TestParse_Empty(t *testing.T) {
	for _, line := range []string{"", "   ", "\t"} {
		if res := Parse(line); res.Command != "" {
			t.Errorf("Parse(%q).Command = %q, want empty", line, res.Command)
		}
	}
}

func TestParse_SayApostrophe(t *testing.T) {
	res := Parse("'hello there")
	if res.Command != "'" {
		t.Errorf("Command = %q, want apostrophe alias", res.Command)
	}
	if res.RawArgs != "hello there" {
		t.Errorf("RawArgs = %q, want %q", res.RawArgs, "hello there")
	}
}

func TestParse_PreservesRawSpacing(t *testing.T) {
	res := Parse("say well...  hello")
	if res.RawArgs != "well...  hello" {
		t.Errorf("RawArgs = %q, want interior spacing preserved", res.RawArgs)
	}
}
