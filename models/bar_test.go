package models

import (
	"testing"

	"github.com/google/uuid"

	"weave/cargo"
	"weave/wirejson"
	"weave/wirexml"
)

func TestContentDispatchesToBarA(t *testing.T) {
	id := uuid.New()
	doc := `{"type":"BarA","id":"` + id.String() + `","text":"hello"}`

	c := NewContent()
	if err := wirejson.Receive(doc, c, cargo.Identity{Name: "content"}, cargo.DefaultPolicy()); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	body, ok := c.Body.(*BarA)
	if !ok {
		t.Fatalf("expected *BarA, got %T", c.Body)
	}
	if body.Text != "hello" || body.ID != id {
		t.Errorf("got %+v", body)
	}
}

func TestContentDispatchesToBarB(t *testing.T) {
	doc := `<content type="BarB" id="` + uuid.New().String() + `"><count>3</count><label>crates</label></content>`

	c := NewContent()
	if err := wirexml.Receive(doc, c, cargo.Identity{Name: "content"}, cargo.DefaultPolicy()); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	body, ok := c.Body.(*BarB)
	if !ok {
		t.Fatalf("expected *BarB, got %T", c.Body)
	}
	if body.Count != 3 || body.Label != "crates" {
		t.Errorf("got %+v", body)
	}
}

func TestContentUnknownTypeFails(t *testing.T) {
	doc := `{"type":"BarZ","id":"` + uuid.New().String() + `","text":"x"}`
	c := NewContent()
	if err := wirejson.Receive(doc, c, cargo.Identity{Name: "content"}, cargo.DefaultPolicy()); err == nil {
		t.Fatal("expected an error for an unregistered type discriminator")
	}
}

func TestContentRoundTripJSON(t *testing.T) {
	id := uuid.New()
	c := NewContent()
	c.Type = "BarA"
	c.ID = id
	c.Body = &BarA{ID: id, Text: "round trip"}

	out, err := wirejson.Marshal(c, cargo.Identity{Name: "content"}, cargo.Policy{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	round := NewContent()
	if err := wirejson.Receive(out, round, cargo.Identity{Name: "content"}, cargo.DefaultPolicy()); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	body, ok := round.Body.(*BarA)
	if !ok || body.Text != "round trip" || body.ID != id {
		t.Errorf("round trip mismatch: %+v", round.Body)
	}
}
