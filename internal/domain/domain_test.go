package domain

import (
	"encoding/json"
	"testing"
)

func TestStatusReport_KeepsFirstPositionLastValue(t *testing.T) {
	r := NewStatusReport(3)
	r.Set("https://a", true)
	r.Set("https://b", false)
	r.Set("https://a", false)

	if r.Len() != 2 {
		t.Fatalf("want 2 entries, got %d", r.Len())
	}
	got := r.Statuses()
	if got[0].URL != "https://a" || got[0].Up {
		t.Fatalf("first entry should be a/down, got %+v", got[0])
	}
	if got[1].URL != "https://b" || got[1].Up {
		t.Fatalf("second entry should be b/down, got %+v", got[1])
	}
}

func TestStatusReport_CountsAndFailures(t *testing.T) {
	r := NewStatusReport(0)
	r.Set("u1", true)
	r.Set("u2", false)
	r.Set("u3", true)

	if r.UpCount() != 2 || r.DownCount() != 1 {
		t.Fatalf("counts wrong: up=%d down=%d", r.UpCount(), r.DownCount())
	}
	f := r.Failures()
	if len(f) != 1 || f[0].URL != "u2" {
		t.Fatalf("unexpected failures: %+v", f)
	}
	if up, ok := r.Lookup("u3"); !ok || !up {
		t.Fatalf("lookup u3: up=%v ok=%v", up, ok)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Fatalf("lookup of unknown url should miss")
	}
	m := r.Map()
	if len(m) != 3 || !m["u1"] || m["u2"] || !m["u3"] {
		t.Fatalf("unexpected map: %v", m)
	}
}

func TestStatusReport_StatusesIsACopy(t *testing.T) {
	r := NewStatusReport(1)
	r.Set("u1", true)
	s := r.Statuses()
	s[0].Up = false
	if up, _ := r.Lookup("u1"); !up {
		t.Fatalf("mutating the returned slice changed the report")
	}
}

func TestStatusReport_MarshalJSONIsOrderedArray(t *testing.T) {
	r := NewStatusReport(2)
	r.Set("https://b", false)
	r.Set("https://a", true)

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"url":"https://b","up":false},{"url":"https://a","up":true}]`
	if string(b) != want {
		t.Fatalf("want %s, got %s", want, b)
	}

	empty, _ := json.Marshal(NewStatusReport(0))
	if string(empty) != "[]" {
		t.Fatalf("empty report should encode as [], got %s", empty)
	}
}

func TestStatusReport_NilSafe(t *testing.T) {
	var r *StatusReport
	if r.Len() != 0 || r.Statuses() != nil || r.Failures() != nil || len(r.Map()) != 0 {
		t.Fatalf("nil report should behave as empty")
	}
}
