package registry

import (
	"testing"

	"github.com/vovakirdan/gamehost/internal/engine"
)

func nopFactory(Platform) engine.Core { return nil }

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestRegisterAndLookup(t *testing.T) {
	Register(AppInfo{ID: "test.b", Title: "B", Description: "second"}, nopFactory)
	Register(AppInfo{ID: "test.a"}, nopFactory)

	info, ok := Lookup("test.a")
	if !ok {
		t.Fatal("Lookup(test.a) not found")
	}
	if info.Title != "test.a" {
		t.Errorf("Title = %q, expected the ID when no title is given", info.Title)
	}
	if !Exists("test.b") || Exists("test.missing") {
		t.Error("Exists() reports the wrong apps")
	}

	f, err := FactoryFor("test.b")
	if err != nil || f == nil {
		t.Errorf("FactoryFor(test.b) = %v, %v", f, err)
	}
	if _, err := FactoryFor("test.missing"); err == nil {
		t.Error("FactoryFor() of an unknown app should fail")
	}
}

func TestListIsSorted(t *testing.T) {
	Register(AppInfo{ID: "test.list.z"}, nopFactory)
	Register(AppInfo{ID: "test.list.m"}, nopFactory)

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted at %d: %q before %q", i, list[i-1].ID, list[i].ID)
		}
	}
}

func TestRegisterRejectsBadIDs(t *testing.T) {
	Register(AppInfo{ID: "test.dup"}, nopFactory)

	expectPanic(t, "duplicate Register", func() {
		Register(AppInfo{ID: "test.dup"}, nopFactory)
	})
	expectPanic(t, "Register without ID", func() {
		Register(AppInfo{}, nopFactory)
	})
}
