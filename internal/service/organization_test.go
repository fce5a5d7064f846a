package service

import (
	"errors"
	"testing"
	"time"

	"lesson-server/internal/model"
)

// TestFilterActiveMembers tests the class end-date filter on memberships
func TestFilterActiveMembers(t *testing.T) {
	now := time.Now()
	openClass := &model.LessonOrganizationClass{ID: 1, End: now.Add(24 * time.Hour)}
	closedClass := &model.LessonOrganizationClass{ID: 2, End: now.Add(-24 * time.Hour)}

	members := []model.LessonOrganizationClassMember{
		{ID: 1, ClassID: 0, RoleID: model.RoleStudent},                      // org-level, always active
		{ID: 2, ClassID: 1, RoleID: model.RoleTeacher, Class: openClass},    // open class
		{ID: 3, ClassID: 2, RoleID: model.RoleAdmin, Class: closedClass},    // ended class
		{ID: 4, ClassID: 3, RoleID: model.RoleTeacher},                      // class row missing
	}

	active := FilterActiveMembers(members, now)
	if len(active) != 2 {
		t.Fatalf("expected 2 active members, got %d", len(active))
	}
	if active[0].ID != 1 || active[1].ID != 2 {
		t.Errorf("wrong members kept: %v, %v", active[0].ID, active[1].ID)
	}

	// the admin role lived in the ended class, so the merged role drops to teacher
	role, err := MergeRole(active)
	if err != nil {
		t.Fatalf("MergeRole: %v", err)
	}
	if role != model.RoleTeacher {
		t.Errorf("expected merged role %d, got %d", model.RoleTeacher, role)
	}
}

// TestLoginRoleDropsWithExpiredClass tests that an admin role living in an
// ended class leaves only the org-level student role for the session
func TestLoginRoleDropsWithExpiredClass(t *testing.T) {
	now := time.Now()
	expired := &model.LessonOrganizationClass{ID: 7, End: now.Add(-time.Hour)}

	members := []model.LessonOrganizationClassMember{
		{ClassID: 0, RoleID: model.RoleStudent},
		{ClassID: 7, RoleID: model.RoleAdmin, Class: expired},
	}

	role, err := MergeRole(FilterActiveMembers(members, now))
	if err != nil {
		t.Fatalf("MergeRole: %v", err)
	}
	if role != model.RoleStudent {
		t.Errorf("expected effective role %d, got %d", model.RoleStudent, role)
	}
}

// TestMergeRoleEmpty tests that a user with no membership cannot get a session
func TestMergeRoleEmpty(t *testing.T) {
	_, err := MergeRole(nil)
	if !errors.Is(err, ErrMemberNotExists) {
		t.Errorf("expected ErrMemberNotExists, got %v", err)
	}
}

// TestMergeRoleOrderIndependent tests that record order does not change the result
func TestMergeRoleOrderIndependent(t *testing.T) {
	a := []model.LessonOrganizationClassMember{
		{RoleID: model.RoleStudent},
		{RoleID: model.RoleAdmin},
		{RoleID: model.RoleTeacher},
	}
	b := []model.LessonOrganizationClassMember{
		{RoleID: model.RoleAdmin},
		{RoleID: model.RoleTeacher},
		{RoleID: model.RoleStudent},
	}

	ra, _ := MergeRole(a)
	rb, _ := MergeRole(b)
	if ra != rb || ra != model.RoleAdmin {
		t.Errorf("expected both merges to yield %d, got %d and %d", model.RoleAdmin, ra, rb)
	}
}

// TestCreateOrganizationDuplicate tests name/login URL uniqueness
func TestCreateOrganizationDuplicate(t *testing.T) {
	setupTestDB(t)

	if _, err := CreateOrganization(CreateOrganizationParams{Name: "编程一校", LoginURL: "school-1"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	if _, err := CreateOrganization(CreateOrganizationParams{Name: "编程一校", LoginURL: "other"}); !errors.Is(err, ErrOrganizationExists) {
		t.Errorf("duplicate name: expected ErrOrganizationExists, got %v", err)
	}
	if _, err := CreateOrganization(CreateOrganizationParams{Name: "编程二校", LoginURL: "school-1"}); !errors.Is(err, ErrOrganizationExists) {
		t.Errorf("duplicate login URL: expected ErrOrganizationExists, got %v", err)
	}

	// empty login URL gets a generated one
	organ, err := CreateOrganization(CreateOrganizationParams{Name: "编程二校"})
	if err != nil {
		t.Fatalf("create with generated URL: %v", err)
	}
	if organ.LoginURL == "" {
		t.Error("expected a generated login URL")
	}
}

// TestReplaceOrgPackages tests the replace and the cleanup of dependent class packages
func TestReplaceOrgPackages(t *testing.T) {
	setupTestDB(t)

	const orgID = int64(1)
	mustCreate(t, &model.LessonOrganizationPackage{OrganizationID: orgID, ClassID: 0, PackageID: 10})
	mustCreate(t, &model.LessonOrganizationPackage{OrganizationID: orgID, ClassID: 0, PackageID: 11})
	// class packages depending on the org set
	mustCreate(t, &model.LessonOrganizationPackage{OrganizationID: orgID, ClassID: 5, PackageID: 10})
	mustCreate(t, &model.LessonOrganizationPackage{OrganizationID: orgID, ClassID: 5, PackageID: 11})
	// another organization must not be touched
	mustCreate(t, &model.LessonOrganizationPackage{OrganizationID: 2, ClassID: 0, PackageID: 11})

	err := ReplaceOrgPackages(orgID, []OrgPackageEntry{
		{PackageID: 10, MinRole: model.RoleTeacher},
		{PackageID: 12},
	})
	if err != nil {
		t.Fatalf("ReplaceOrgPackages: %v", err)
	}

	rows, err := GetOrgPackages(orgID)
	if err != nil {
		t.Fatalf("GetOrgPackages: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 org-level packages, got %d", len(rows))
	}
	got := map[int64]model.ClassMemberRole{}
	for _, row := range rows {
		got[row.PackageID] = row.MinRole
	}
	if got[10] != model.RoleTeacher {
		t.Errorf("package 10 should carry min role %d, got %d", model.RoleTeacher, got[10])
	}
	if _, ok := got[12]; !ok {
		t.Error("package 12 missing from the new org set")
	}

	// class package 11 depended on the removed org entry and must be gone
	var classRows []model.LessonOrganizationPackage
	if err := model.DB.Where("organization_id = ? AND class_id <> 0", orgID).Find(&classRows).Error; err != nil {
		t.Fatalf("query class packages: %v", err)
	}
	if len(classRows) != 1 || classRows[0].PackageID != 10 {
		t.Errorf("expected only class package 10 to survive, got %+v", classRows)
	}

	// the other organization keeps its rows
	var otherCount int64
	model.DB.Model(&model.LessonOrganizationPackage{}).Where("organization_id = ?", 2).Count(&otherCount)
	if otherCount != 1 {
		t.Errorf("other organization rows were touched, count=%d", otherCount)
	}
}

// TestClampClassEndDates tests that classes never outlive the organization
func TestClampClassEndDates(t *testing.T) {
	setupTestDB(t)

	endDate := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	mustCreate(t, &model.LessonOrganizationClass{OrganizationID: 1, Name: "A班", End: endDate.AddDate(0, 0, 10)})
	mustCreate(t, &model.LessonOrganizationClass{OrganizationID: 1, Name: "B班", End: endDate.AddDate(0, 0, -5)})
	mustCreate(t, &model.LessonOrganizationClass{OrganizationID: 2, Name: "C班", End: endDate.AddDate(0, 0, 10)})

	if err := ClampClassEndDates(1, endDate); err != nil {
		t.Fatalf("ClampClassEndDates: %v", err)
	}

	var classes []model.LessonOrganizationClass
	if err := model.DB.Order("id").Find(&classes).Error; err != nil {
		t.Fatalf("query classes: %v", err)
	}

	if !classes[0].End.Equal(endDate) {
		t.Errorf("class A should be clamped to %v, got %v", endDate, classes[0].End)
	}
	if !classes[1].End.Equal(endDate.AddDate(0, 0, -5)) {
		t.Errorf("class B ended early and must not be extended, got %v", classes[1].End)
	}
	if !classes[2].End.Equal(endDate.AddDate(0, 0, 10)) {
		t.Errorf("class of another organization must not change, got %v", classes[2].End)
	}
}

// TestReplaceOrgAdmins tests the roster replace and the unknown-username rejection
func TestReplaceOrgAdmins(t *testing.T) {
	setupTestDB(t)

	alice := model.User{Username: "alice", Realname: "张三"}
	bob := model.User{Username: "bob"}
	mustCreate(t, &alice)
	mustCreate(t, &bob)

	const orgID = int64(1)
	// alice already has a class membership with a realname used in this org
	mustCreate(t, &model.LessonOrganizationClassMember{
		OrganizationID: orgID, MemberID: alice.ID, ClassID: 9,
		RoleID: model.RoleStudent, Realname: "张老师",
	})
	// stale org-level row that the replace must remove
	mustCreate(t, &model.LessonOrganizationClassMember{
		OrganizationID: orgID, MemberID: bob.ID, ClassID: 0, RoleID: model.RoleAdmin,
	})

	// one unknown name rejects the whole roster
	err := ReplaceOrgAdmins(orgID, []string{"alice", "ghost"})
	var unknown *UnknownUsernamesError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownUsernamesError, got %v", err)
	}
	if len(unknown.Usernames) != 1 || unknown.Usernames[0] != "ghost" {
		t.Errorf("expected rejected list [ghost], got %v", unknown.Usernames)
	}

	// the failed call must not have changed the roster
	var count int64
	model.DB.Model(&model.LessonOrganizationClassMember{}).
		Where("organization_id = ? AND class_id = 0", orgID).Count(&count)
	if count != 1 {
		t.Fatalf("roster changed by a rejected replace, count=%d", count)
	}

	if err := ReplaceOrgAdmins(orgID, []string{"alice"}); err != nil {
		t.Fatalf("ReplaceOrgAdmins: %v", err)
	}

	var admins []model.LessonOrganizationClassMember
	if err := model.DB.Where("organization_id = ? AND class_id = 0", orgID).Find(&admins).Error; err != nil {
		t.Fatalf("query admins: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("expected 1 admin row, got %d", len(admins))
	}
	if admins[0].MemberID != alice.ID || admins[0].RoleID != model.RoleAdmin {
		t.Errorf("unexpected admin row: %+v", admins[0])
	}
	// realname stays consistent with her existing membership in this org
	if admins[0].Realname != "张老师" {
		t.Errorf("expected realname 张老师, got %s", admins[0].Realname)
	}
}

// TestGetMemberCountByRole tests the per-role distinct member count
func TestGetMemberCountByRole(t *testing.T) {
	setupTestDB(t)

	const orgID = int64(1)
	rows := []model.LessonOrganizationClassMember{
		{OrganizationID: orgID, MemberID: 1, ClassID: 1, RoleID: model.RoleStudent},
		{OrganizationID: orgID, MemberID: 1, ClassID: 2, RoleID: model.RoleStudent}, // same user twice
		{OrganizationID: orgID, MemberID: 2, ClassID: 1, RoleID: model.RoleStudent},
		{OrganizationID: orgID, MemberID: 3, ClassID: 0, RoleID: model.RoleAdmin},
		{OrganizationID: 2, MemberID: 4, ClassID: 0, RoleID: model.RoleTeacher},
	}
	for i := range rows {
		mustCreate(t, &rows[i])
	}

	list, err := GetMemberCountByRole(orgID)
	if err != nil {
		t.Fatalf("GetMemberCountByRole: %v", err)
	}

	counts := map[model.ClassMemberRole]int64{}
	for _, rc := range list {
		counts[rc.RoleID] = rc.Count
	}
	if counts[model.RoleStudent] != 2 {
		t.Errorf("expected 2 distinct students, got %d", counts[model.RoleStudent])
	}
	if counts[model.RoleAdmin] != 1 {
		t.Errorf("expected 1 admin, got %d", counts[model.RoleAdmin])
	}
	if counts[model.RoleTeacher] != 0 {
		t.Errorf("teacher of another organization leaked in, got %d", counts[model.RoleTeacher])
	}
}

// TestCheckUserInvalid tests the teacher roster pre-check
func TestCheckUserInvalid(t *testing.T) {
	setupTestDB(t)

	carol := model.User{Username: "carol"}
	dave := model.User{Username: "dave"}
	mustCreate(t, &carol)
	mustCreate(t, &dave)
	mustCreate(t, &model.LessonOrganizationClassMember{
		OrganizationID: 1, MemberID: carol.ID, ClassID: 1, RoleID: model.RoleTeacher,
	})

	if err := CheckUserInvalid("carol", 1); !errors.Is(err, ErrAlreadyTeacher) {
		t.Errorf("expected ErrAlreadyTeacher, got %v", err)
	}
	if err := CheckUserInvalid("dave", 1); err != nil {
		t.Errorf("dave should be valid, got %v", err)
	}
	if err := CheckUserInvalid("nobody", 1); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// TestGetRealNameInOrg tests the membership realname lookup
func TestGetRealNameInOrg(t *testing.T) {
	setupTestDB(t)

	mustCreate(t, &model.LessonOrganizationClassMember{
		OrganizationID: 1, MemberID: 5, ClassID: 2, RoleID: model.RoleStudent, Realname: "李四",
	})

	name, err := GetRealNameInOrg(5, 1)
	if err != nil {
		t.Fatalf("GetRealNameInOrg: %v", err)
	}
	if name != "李四" {
		t.Errorf("expected 李四, got %s", name)
	}

	if _, err := GetRealNameInOrg(5, 99); !errors.Is(err, ErrUserNotInOrg) {
		t.Errorf("expected ErrUserNotInOrg, got %v", err)
	}
}

// TestGetUserOrganizations tests the membership-based organization listing
func TestGetUserOrganizations(t *testing.T) {
	setupTestDB(t)

	mustCreate(t, &model.LessonOrganization{Name: "甲机构", LoginURL: "org-a"})
	mustCreate(t, &model.LessonOrganization{Name: "乙机构", LoginURL: "org-b"})
	mustCreate(t, &model.LessonOrganizationClassMember{OrganizationID: 1, MemberID: 8, ClassID: 0, RoleID: model.RoleStudent})
	mustCreate(t, &model.LessonOrganizationClassMember{OrganizationID: 1, MemberID: 8, ClassID: 3, RoleID: model.RoleTeacher})

	organs, err := GetUserOrganizations(8)
	if err != nil {
		t.Fatalf("GetUserOrganizations: %v", err)
	}
	if len(organs) != 1 || organs[0].Name != "甲机构" {
		t.Errorf("expected only 甲机构, got %+v", organs)
	}
}
