package portfolio

import (
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("keys keep their order", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("z", 1)
		w.Append("a", "hello")
		w.Append("m", []int{})
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"z":1,"a":"hello","m":[]}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("marshal error is sticky", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", make(chan int))
		w.Append("b", 2)
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("expected an error for an unmarshalable value")
		}
	})
}
