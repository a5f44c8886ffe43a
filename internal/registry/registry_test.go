package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/chicken-war/internal/logic"
)

type described struct{ logic.Logic }

func (described) Description() string { return "does nothing, politely" }

func TestRegisterAndCreate(t *testing.T) {
	noop := func(context.Context, *logic.TeamState, *logic.MoveResult) error { return nil }
	Register("test-noop", func() logic.Logic { return logic.Func("test-noop", noop) })
	Register("test-described", func() logic.Logic { return described{logic.Func("test-described", noop)} })

	if !Exists("test-noop") {
		t.Error("Exists() = false, expected true")
	}
	l, err := Create("test-noop")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if l.Name() != "test-noop" {
		t.Errorf("Name() = %q, expected %q", l.Name(), "test-noop")
	}

	var found bool
	for _, info := range List() {
		if info.Name == "test-described" {
			found = true
			if info.Description != "does nothing, politely" {
				t.Errorf("Description = %q", info.Description)
			}
		}
	}
	if !found {
		t.Error("List() is missing test-described")
	}

	if _, err := Create("nope"); !errors.Is(err, ErrUnknownLogic) {
		t.Errorf("Create() error = %v, expected ErrUnknownLogic", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	f := func() logic.Logic {
		return logic.Func("test-dup", func(context.Context, *logic.TeamState, *logic.MoveResult) error { return nil })
	}
	Register("test-dup", f)

	defer func() {
		if recover() == nil {
			t.Error("Register() of a duplicate name should panic")
		}
	}()
	Register("test-dup", f)
}

func TestListSorted(t *testing.T) {
	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Errorf("List() not sorted at %d: %q > %q", i, list[i-1].Name, list[i].Name)
		}
	}
}
