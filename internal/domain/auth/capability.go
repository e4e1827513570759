package auth

// Role identifies a user's function on the project.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleArchitect Role = "architect"
	RoleProrab    Role = "prorab"
	RolePTO       Role = "pto"
	RoleDirector  Role = "director"
	RoleWorker    Role = "worker"
)

// Category groups operations that share one permission rule.
type Category string

const (
	// CategoryStructureEdit covers create/rename/delete/reorder/copy and
	// adding materials at any level of the hierarchy.
	CategoryStructureEdit Category = "structure-edit"
	// CategoryGroupEdit covers the work-group reference list.
	CategoryGroupEdit Category = "group-edit"
	// CategoryMarkWorkDone covers the work-done completion flag.
	CategoryMarkWorkDone Category = "mark-work-done"
	// CategoryMarkDocDone covers the doc-done documentation flag.
	CategoryMarkDocDone Category = "mark-doc-done"
	// CategoryEditDates covers the work-item schedule range.
	CategoryEditDates Category = "edit-dates"
	// CategoryComment covers the work-item discussion thread.
	CategoryComment Category = "comment"
	// CategoryAccountAdmin covers user account administration.
	CategoryAccountAdmin Category = "account-admin"
)

// capabilities is the single permission table consulted once per request.
// An empty entry means every authenticated role is allowed.
var capabilities = map[Category][]Role{
	CategoryStructureEdit: {RoleAdmin, RoleArchitect},
	CategoryGroupEdit:     {RoleAdmin},
	CategoryMarkWorkDone:  {RoleProrab, RoleAdmin},
	CategoryMarkDocDone:   {RolePTO, RoleAdmin},
	CategoryEditDates:     {RoleAdmin, RoleArchitect},
	CategoryComment:       {},
	CategoryAccountAdmin:  {RoleAdmin},
}

// Allowed reports whether role may perform operations in category.
// Denial of structure and status operations is silent: the caller drops
// the mutation without surfacing an error event. Only account
// administration reports denial explicitly.
func Allowed(role Role, category Category) bool {
	allowed, ok := capabilities[category]
	if !ok {
		return false
	}
	if len(allowed) == 0 {
		return role != ""
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Roles returns every known role, for account administration forms.
func Roles() []Role {
	return []Role{RoleAdmin, RoleArchitect, RoleProrab, RolePTO, RoleDirector, RoleWorker}
}
