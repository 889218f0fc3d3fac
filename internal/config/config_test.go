package config

import "testing"

func TestGettersBeforeInitialize(t *testing.T) {
	v = nil
	if GetString("db") != "" || GetBool("json") || GetInt("log.max-size") != 0 {
		t.Error("uninitialized getters should return zero values")
	}
	if len(AllSettings()) != 0 {
		t.Error("uninitialized AllSettings should be empty")
	}
}

func TestGetActorFlagWins(t *testing.T) {
	if got := GetActor("alice@example.com"); got != "alice@example.com" {
		t.Errorf("GetActor = %q, want flag value", got)
	}
}

func TestGetRolesParsesFlag(t *testing.T) {
	got := GetRoles(" Wiki Manager , Wiki Approver ,,")
	if len(got) != 2 || got[0] != "Wiki Manager" || got[1] != "Wiki Approver" {
		t.Errorf("GetRoles = %v", got)
	}
}
