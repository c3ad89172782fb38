package rbac

import (
	"context"

	"admind/internal/entity"
)

// ScopeFilter 是模型无关的行级过滤描述,各仓储自行套到查询上。
// Enabled 为 false 时等价于恒真过滤。
type ScopeFilter struct {
	Enabled bool
	ViewAll bool
	// CallerID 是发起请求的用户 ID,作为兜底过滤条件。
	CallerID int64
	// DeptIDs 是允许访问的部门集合,UserIDs 是允许访问的用户集合,两者取并集。
	DeptIDs []int64
	UserIDs []int64
	// DeleteDeptIDs 是删除动作允许覆盖的部门集合,SelfOnlyDelete 表示仅能删自己的数据。
	DeleteDeptIDs  []int64
	SelfOnlyDelete bool
}

// Allows 判断一条带归属信息的记录是否在可见范围内,用于无法下推 SQL 的场景。
func (f ScopeFilter) Allows(ownerID int64, deptID *int64) bool {
	if !f.Enabled || f.ViewAll {
		return true
	}
	if deptID != nil {
		for _, id := range f.DeptIDs {
			if id == *deptID {
				return true
			}
		}
	}
	for _, id := range f.UserIDs {
		if id == ownerID {
			return true
		}
	}
	if len(f.DeptIDs) == 0 && len(f.UserIDs) == 0 {
		return ownerID == f.CallerID
	}
	return false
}

// AllowsDelete 判断删除动作是否被数据范围允许,比查看更严格。
func (f ScopeFilter) AllowsDelete(ownerID int64, deptID *int64) bool {
	if !f.Enabled || f.ViewAll {
		return true
	}
	if f.SelfOnlyDelete {
		return ownerID == f.CallerID
	}
	if deptID != nil {
		for _, id := range f.DeleteDeptIDs {
			if id == *deptID {
				return true
			}
		}
	}
	return ownerID == f.CallerID
}

// BuildFilter 把解析出的权限展开成行级过滤描述。
// 任一角色不开启范围过滤或用户为超管时直接放行。
func (r *Resolver) BuildFilter(ctx context.Context, res *Resolution) (ScopeFilter, error) {
	filter := ScopeFilter{CallerID: res.UserID}
	if res.IsSuperuser || !res.FilterScopes {
		return filter, nil
	}
	filter.Enabled = true
	filter.SelfOnlyDelete = true

	deptSet := make(map[int64]struct{})
	delDeptSet := make(map[int64]struct{})
	userSet := make(map[int64]struct{})

	for _, scope := range res.Scopes {
		switch scope.Mode {
		case entity.ScopeModeAll:
			filter.ViewAll = true
			filter.SelfOnlyDelete = false
			return filter, nil
		case entity.ScopeModeCustom:
			for _, id := range scope.CustomDeptIDs {
				deptSet[id] = struct{}{}
			}
		case entity.ScopeModeDept:
			if res.DeptID != nil {
				deptSet[*res.DeptID] = struct{}{}
			}
		case entity.ScopeModeDeptAndChildren:
			if res.DeptID != nil {
				ids, err := r.store.ListDeptAndChildren(ctx, *res.DeptID)
				if err != nil {
					return ScopeFilter{}, err
				}
				for _, id := range ids {
					deptSet[id] = struct{}{}
					delDeptSet[id] = struct{}{}
				}
				filter.SelfOnlyDelete = false
			}
		case entity.ScopeModeSelf:
			userSet[res.UserID] = struct{}{}
		}
	}

	for id := range deptSet {
		filter.DeptIDs = append(filter.DeptIDs, id)
	}
	for id := range delDeptSet {
		filter.DeleteDeptIDs = append(filter.DeleteDeptIDs, id)
	}
	for id := range userSet {
		filter.UserIDs = append(filter.UserIDs, id)
	}
	return filter, nil
}
