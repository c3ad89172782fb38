package model

import (
	"context"
	"time"

	"github.com/google/uuid"

	"admind/internal/auth"
	"admind/internal/entity"
	"admind/internal/errs"
)

// SeedDefaults ensures the base department, superuser and menu tree
// exist so a fresh deployment can be logged into.
func SeedDefaults(ctx context.Context, repo Repository) error {
	if repo == nil {
		return nil
	}

	deptID, err := seedRootDept(ctx, repo)
	if err != nil {
		return err
	}
	if err := seedSuperuser(ctx, repo, deptID); err != nil {
		return err
	}
	return seedBaseMenus(ctx, repo)
}

func seedRootDept(ctx context.Context, repo Repository) (int64, error) {
	depts, err := repo.ListDepts(ctx, nil)
	if err != nil {
		return 0, err
	}
	if len(depts) > 0 {
		return depts[0].ID, nil
	}

	root := entity.DbDept{Name: "总公司", Sort: 0, Status: entity.StatusActive}
	if err := repo.CreateDept(ctx, &root); err != nil {
		return 0, err
	}
	return root.ID, nil
}

func seedSuperuser(ctx context.Context, repo Repository, deptID int64) error {
	_, err := repo.GetUserByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if errs.KindOf(err) != errs.KindNotFound {
		return err
	}

	digest, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	admin := entity.DbUser{
		UUID:        uuid.NewString(),
		Username:    "admin",
		Nickname:    "超级管理员",
		Password:    digest,
		Status:      entity.StatusActive,
		IsSuperuser: true,
		IsStaff:     true,
		DeptID:      &deptID,
		JoinTime:    time.Now(),
	}
	return repo.CreateUser(ctx, &admin)
}

func seedBaseMenus(ctx context.Context, repo Repository) error {
	menus, err := repo.ListMenus(ctx)
	if err != nil {
		return err
	}
	if len(menus) > 0 {
		return nil
	}

	system := entity.DbMenu{Title: "系统管理", Name: "System", MenuType: entity.MenuTypeDirectory, Path: "/system", Icon: "settings", Sort: 1, Status: entity.StatusActive, Display: true}
	if err := repo.CreateMenu(ctx, &system); err != nil {
		return err
	}

	children := []entity.DbMenu{
		{Title: "用户管理", Name: "SystemUser", MenuType: entity.MenuTypeMenu, Path: "/system/user", Component: "system/user/index", Perms: "sys:user:list", Sort: 1},
		{Title: "角色管理", Name: "SystemRole", MenuType: entity.MenuTypeMenu, Path: "/system/role", Component: "system/role/index", Perms: "sys:role:list", Sort: 2},
		{Title: "菜单管理", Name: "SystemMenu", MenuType: entity.MenuTypeMenu, Path: "/system/menu", Component: "system/menu/index", Perms: "sys:menu:list", Sort: 3},
		{Title: "部门管理", Name: "SystemDept", MenuType: entity.MenuTypeMenu, Path: "/system/dept", Component: "system/dept/index", Perms: "sys:dept:list", Sort: 4},
		{Title: "数据权限", Name: "SystemDataScope", MenuType: entity.MenuTypeMenu, Path: "/system/data-scope", Component: "system/data-scope/index", Perms: "sys:data_scope:list,sys:data_rule:list", Sort: 5},
		{Title: "字典管理", Name: "SystemDict", MenuType: entity.MenuTypeMenu, Path: "/system/dict", Component: "system/dict/index", Perms: "sys:dict:list", Sort: 6},
		{Title: "参数管理", Name: "SystemConfig", MenuType: entity.MenuTypeMenu, Path: "/system/config", Component: "system/config/index", Perms: "sys:config:list", Sort: 7},
		{Title: "通知公告", Name: "SystemNotice", MenuType: entity.MenuTypeMenu, Path: "/system/notice", Component: "system/notice/index", Perms: "sys:notice:list", Sort: 8},
		{Title: "登录日志", Name: "SystemLoginLog", MenuType: entity.MenuTypeMenu, Path: "/system/login-log", Component: "system/login-log/index", Perms: "sys:login_log:list", Sort: 9},
		{Title: "在线用户", Name: "SystemOnline", MenuType: entity.MenuTypeMenu, Path: "/system/online", Component: "system/online/index", Perms: "sys:online:list", Sort: 10},
		{Title: "文件管理", Name: "SystemFile", MenuType: entity.MenuTypeMenu, Path: "/system/file", Component: "system/file/index", Perms: "sys:file:list", Sort: 11},
	}
	for i := range children {
		children[i].ParentID = &system.ID
		children[i].Status = entity.StatusActive
		children[i].Display = true
		if err := repo.CreateMenu(ctx, &children[i]); err != nil {
			return err
		}
	}
	return nil
}
