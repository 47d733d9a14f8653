package core

import (
	"errors"
	"slices"
	"testing"
)

func TestRegisterAssignsSmallestUnusedNickname(t *testing.T) {
	r := NewRegistry()

	for i, want := range []string{"User0", "User1", "User2"} {
		if got := r.Register(connID(i)); got != want {
			t.Fatalf("register %d: got %q, want %q", i, got, want)
		}
	}

	if _, err := r.Deregister(connID(1)); err != nil {
		t.Fatalf("deregister: %v", err)
	}
	// The freed User1 slot is the smallest unused suffix again.
	if got := r.Register("c-new"); got != "User1" {
		t.Fatalf("register after gap: got %q, want User1", got)
	}
}

func TestDeregisterUnknownConnection(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Deregister("ghost"); !errors.Is(err, ErrUnknownConnection) {
		t.Fatalf("expected ErrUnknownConnection, got %v", err)
	}
}

func TestDeregisterDestroysOwnedChannels(t *testing.T) {
	r := NewRegistry()
	r.Register(connID(0)) // User0
	r.Register(connID(1)) // User1
	r.Register(connID(2)) // User2
	r.CreateChannel("general", "User0", false)
	r.AddMember("general", "User1")
	r.CreateChannel("side", "User1", false)
	r.AddMember("side", "User2")

	// User1 is a member of general and owns side.
	witnesses, err := r.Deregister(connID(1))
	if err != nil {
		t.Fatalf("deregister: %v", err)
	}
	if !slices.Equal(witnesses, []string{"User0", "User2"}) {
		t.Fatalf("unexpected witnesses: %v", witnesses)
	}
	if _, ok := r.Channel("side"); ok {
		t.Fatal("owned channel survived owner departure")
	}
	members, ok := r.Members("general")
	if !ok {
		t.Fatal("general disappeared")
	}
	if slices.Contains(members, "User1") {
		t.Fatalf("departed user still a member: %v", members)
	}
}

func TestRenamePropagatesToChannels(t *testing.T) {
	r := NewRegistry()
	r.Register(connID(0)) // User0
	r.Register(connID(1)) // User1
	r.CreateChannel("general", "User0", false)
	r.AddMember("general", "User1")

	r.Rename(connID(0), "alice")

	if id, ok := r.IDOf("alice"); !ok || id != connID(0) {
		t.Fatalf("IDOf(alice) = %q, %v", id, ok)
	}
	if _, ok := r.IDOf("User0"); ok {
		t.Fatal("old nickname still registered")
	}
	ch, _ := r.Channel("general")
	if ch.Owner() != "alice" {
		t.Fatalf("owner not renamed: %q", ch.Owner())
	}
	if !ch.Has("alice") || ch.Has("User0") {
		t.Fatalf("membership not renamed: %v", ch.Members())
	}
}

func TestSharedWithExcludesSelfAndIsSymmetric(t *testing.T) {
	r := NewRegistry()
	r.Register(connID(0)) // User0
	r.Register(connID(1)) // User1
	r.Register(connID(2)) // User2
	r.CreateChannel("general", "User0", false)
	r.AddMember("general", "User1")
	r.CreateChannel("solo", "User2", false)

	if got := r.SharedWith("User0"); !slices.Equal(got, []string{"User1"}) {
		t.Fatalf("SharedWith(User0) = %v", got)
	}
	if got := r.SharedWith("User1"); !slices.Equal(got, []string{"User0"}) {
		t.Fatalf("SharedWith(User1) = %v", got)
	}
	if got := r.SharedWith("User2"); len(got) != 0 {
		t.Fatalf("SharedWith(User2) = %v, want empty", got)
	}
}

func TestSnapshotsAreDefensiveCopies(t *testing.T) {
	r := NewRegistry()
	r.Register(connID(0)) // User0
	r.CreateChannel("general", "User0", false)

	users := r.Users()
	users[0] = "mutated"
	if got := r.Users(); !slices.Equal(got, []string{"User0"}) {
		t.Fatalf("Users snapshot leaked: %v", got)
	}

	channels := r.Channels()
	channels[0] = "mutated"
	if got := r.Channels(); !slices.Equal(got, []string{"general"}) {
		t.Fatalf("Channels snapshot leaked: %v", got)
	}

	members, _ := r.Members("general")
	members[0] = "mutated"
	if got, _ := r.Members("general"); !slices.Equal(got, []string{"User0"}) {
		t.Fatalf("Members snapshot leaked: %v", got)
	}
}

func TestMembershipIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register(connID(0)) // User0
	r.Register(connID(1)) // User1
	r.CreateChannel("general", "User0", false)

	r.AddMember("general", "User1")
	r.AddMember("general", "User1")
	ch, _ := r.Channel("general")
	if ch.Len() != 2 {
		t.Fatalf("double add changed member count: %d", ch.Len())
	}

	r.RemoveMember("general", "absent")
	if ch.Len() != 2 {
		t.Fatalf("removing absent member changed count: %d", ch.Len())
	}

	// No-ops on missing channels must not panic.
	r.AddMember("ghost", "User1")
	r.RemoveMember("ghost", "User1")
}

func TestValidName(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"User0", true},
		{"chatroom42", true},
		{"ü1", true},
		{"", false},
		{"!nv@l!d!", false},
		{"has space", false},
		{"dash-ed", false},
	}
	for _, tc := range cases {
		if got := ValidName(tc.name); got != tc.valid {
			t.Errorf("ValidName(%q) = %v, want %v", tc.name, got, tc.valid)
		}
	}
}

func connID(i int) string {
	return string(rune('a' + i))
}
