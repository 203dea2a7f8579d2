package policy

import "testing"

func TestEmptyListAllowsEveryone(t *testing.T) {
	l := NewList(nil)
	for _, id := range []int64{0, 1, 42, -7, 123456789} {
		if !l.Allowed(id) {
			t.Errorf("expected user %d to be allowed with empty list", id)
		}
	}
}

func TestNonEmptyListRestricts(t *testing.T) {
	l := NewList([]string{"42", "1001"})
	if !l.Allowed(42) {
		t.Error("expected listed user 42 to be allowed")
	}
	if !l.Allowed(1001) {
		t.Error("expected listed user 1001 to be allowed")
	}
	if l.Allowed(43) {
		t.Error("expected unlisted user 43 to be denied")
	}
	if l.Allowed(0) {
		t.Error("expected unlisted user 0 to be denied")
	}
}

func TestCommaSeparatedEntries(t *testing.T) {
	l := NewList([]string{"42, 1001,  7"})
	if l.Size() != 3 {
		t.Fatalf("expected 3 ids, got %d", l.Size())
	}
	for _, id := range []int64{42, 1001, 7} {
		if !l.Allowed(id) {
			t.Errorf("expected user %d to be allowed", id)
		}
	}
}

func TestBlankEntriesIgnored(t *testing.T) {
	l := NewList([]string{"", " ", ","})
	if l.Size() != 0 {
		t.Fatalf("expected empty list, got %d ids", l.Size())
	}
	if !l.Allowed(99) {
		t.Error("blank-only config should behave as unrestricted")
	}
}
