package savings

import (
	"encoding/json"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	var w jsonObjectWriter
	w.Append("id", "a1")
	w.Optional("remarks", "")
	w.Optional("isManual", true)
	w.Extras(extras{"zeta": json.RawMessage(`1`), "id": json.RawMessage(`"shadowed"`), "alpha": json.RawMessage(`[1,2]`)})

	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	want := `{"id":"a1","isManual":true,"alpha":[1,2],"zeta":1}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestJsonObjectWriter_NestedKeys(t *testing.T) {
	var w jsonObjectWriter
	w.Append("id", "1")
	w.Append("transactions", []map[string]string{{"remarks": "salary"}})
	w.Extras(extras{"remarks": json.RawMessage(`"joint account"`)})

	got, err := w.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error: %v", err)
	}
	want := `{"id":"1","transactions":[{"remarks":"salary"}],"remarks":"joint account"}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestDecodeExtras(t *testing.T) {
	e, err := decodeExtras([]byte(`{"id":1,"xirr":12.5,"notes":"kept"}`), "id")
	if err != nil {
		t.Fatalf("decodeExtras() error: %v", err)
	}
	if len(e) != 2 || string(e["xirr"]) != "12.5" || string(e["notes"]) != `"kept"` {
		t.Errorf("decodeExtras() = %v, want xirr and notes", e)
	}

	e, err = decodeExtras([]byte(`{"id":1}`), "id")
	if err != nil || e != nil {
		t.Errorf("decodeExtras() = %v, %v; want nil, nil", e, err)
	}
}
