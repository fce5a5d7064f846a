package model

import (
	"testing"
	"time"
)

// TestRoleOrdering tests that role values order student < teacher < admin
func TestRoleOrdering(t *testing.T) {
	if !(RoleStudent < RoleTeacher && RoleTeacher < RoleAdmin) {
		t.Fatalf("role ordering broken: %d %d %d", RoleStudent, RoleTeacher, RoleAdmin)
	}
}

// TestMeetsOrExceeds tests the role threshold check
func TestMeetsOrExceeds(t *testing.T) {
	cases := []struct {
		role      ClassMemberRole
		threshold ClassMemberRole
		want      bool
	}{
		{RoleStudent, RoleStudent, true},
		{RoleStudent, RoleTeacher, false},
		{RoleTeacher, RoleTeacher, true},
		{RoleTeacher, RoleAdmin, false},
		{RoleAdmin, RoleStudent, true},
		{RoleFull, RoleAdmin, true},
	}
	for _, tc := range cases {
		if got := tc.role.MeetsOrExceeds(tc.threshold); got != tc.want {
			t.Errorf("role %d vs threshold %d: got %v, want %v", tc.role, tc.threshold, got, tc.want)
		}
	}
}

// TestRoleValid tests that only the defined single roles are valid
func TestRoleValid(t *testing.T) {
	for _, r := range []ClassMemberRole{RoleStudent, RoleTeacher, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("role %d should be valid", r)
		}
	}
	for _, r := range []ClassMemberRole{0, 3, RoleFull, 100} {
		if r.Valid() {
			t.Errorf("role %d should be invalid", r)
		}
	}
}

// TestMaxRole tests the highest-role pick
func TestMaxRole(t *testing.T) {
	members := []LessonOrganizationClassMember{
		{RoleID: RoleTeacher},
		{RoleID: RoleStudent},
		{RoleID: RoleAdmin},
	}
	if got := MaxRole(members); got != RoleAdmin {
		t.Errorf("expected %d, got %d", RoleAdmin, got)
	}
	if got := MaxRole(nil); got != 0 {
		t.Errorf("empty input should yield 0, got %d", got)
	}
}

// TestClassIsOpen tests the class lifetime check
func TestClassIsOpen(t *testing.T) {
	now := time.Now()
	open := LessonOrganizationClass{End: now.Add(time.Hour)}
	closed := LessonOrganizationClass{End: now.Add(-time.Hour)}

	if !open.IsOpen(now) {
		t.Error("class ending in the future should be open")
	}
	if closed.IsOpen(now) {
		t.Error("ended class should not be open")
	}
	// zero end date means the class never opened properly
	var zero LessonOrganizationClass
	if zero.IsOpen(now) {
		t.Error("class with zero end date should not be open")
	}
}

// TestOrganizationIsExpired tests the organization end-date check
func TestOrganizationIsExpired(t *testing.T) {
	now := time.Now()

	active := LessonOrganization{EndDate: now.Add(24 * time.Hour)}
	if active.IsExpired(now) {
		t.Error("organization ending tomorrow should not be expired")
	}

	expired := LessonOrganization{EndDate: now.Add(-24 * time.Hour)}
	if !expired.IsExpired(now) {
		t.Error("organization past its end date should be expired")
	}

	// no end date configured means never expiring
	var open LessonOrganization
	if open.IsExpired(now) {
		t.Error("organization without end date should not expire")
	}
}
