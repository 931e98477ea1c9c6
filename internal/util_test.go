package internal

import "testing"

type fakePolicy struct{}

func TestIsTypedNil(t *testing.T) {
	var (
		nilPolicy *fakePolicy
		nilFunc   func()
		nilMap    map[string]error
	)

	cases := []struct {
		name string
		val  any
		want bool
	}{
		{name: "untyped nil", val: nil, want: true},
		{name: "typed nil pointer", val: nilPolicy, want: true},
		{name: "typed nil func", val: nilFunc, want: true},
		{name: "typed nil map", val: nilMap, want: true},
		{name: "nil slice", val: []string(nil), want: true},
		{name: "nil chan", val: (chan int)(nil), want: true},
		{name: "live pointer", val: &fakePolicy{}, want: false},
		{name: "struct value", val: fakePolicy{}, want: false},
		{name: "scalar", val: 42, want: false},
		{name: "empty map", val: map[string]error{}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTypedNil(tc.val); got != tc.want {
				t.Fatalf("IsTypedNil(%s) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}
