package main

import (
	"reflect"
	"testing"
)

func TestSplitAxes(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"x,y,z", []string{"x", "y", "z"}},
		{"x", []string{"x"}},
		{"", nil},
		{"x,,z", []string{"x", "z"}},
		{"x,y,", []string{"x", "y"}},
	}
	for _, c := range cases {
		got := splitAxes(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitAxes(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}
