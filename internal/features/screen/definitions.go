package screen

import (
	"coin-admin/internal/features/access"

	"github.com/gofiber/fiber/v2"
)

// Create is one "add" sub-route of a screen.
type Create struct {
	Segment  string // route segment under the screen, e.g. "add"
	Endpoint string
	Form     func() Form
}

// Action is an optimistic row mutation: POST /<screen>/:id/<name>.
type Action struct {
	Name string
	// Module overrides the screen module for the write check.
	Module  access.Module
	Form    func() ActionForm
	Refetch bool
}

// Definition describes one screen of the route table.
type Definition struct {
	Name     string
	Title    string
	Module   access.Module
	Endpoint string

	// List screens page through Endpoint. Others show a single document.
	List     bool
	PageSize int
	IDField  string
	Columns  []string

	Creates []Create
	Edit    func() Form
	View    bool
	KYC     bool
	Actions []Action
}

// Path is the route prefix of the screen.
func (d *Definition) Path() string {
	return "/" + d.Name
}

// Describe is the body of a form screen such as add or edit.
func (d *Definition) Describe(view string) fiber.Map {
	return fiber.Map{
		"screen": d.Name + "/" + view,
		"title":  d.Title,
		"module": d.Module,
	}
}

func createAt(endpoint string, form func() Form) []Create {
	return []Create{{Segment: "add", Endpoint: endpoint, Form: form}}
}

func statusAction() Action {
	return Action{Name: "status", Form: func() ActionForm { return &StatusForm{} }}
}

// Definitions returns the console route table, dashboard and profile
// excepted.
func Definitions() []*Definition {
	return []*Definition{
		{
			Name: "users", Title: "Users", Module: access.Users, Endpoint: "/admin/users",
			List: true, PageSize: 20, IDField: "_id",
			Columns: []string{"_id", "name", "email", "phone", "coins", "isBlocked", "createdAt"},
			Creates: createAt("/admin/users", func() Form { return &UserForm{} }),
			Edit:    func() Form { return &UserForm{} },
			View:    true,
			KYC:     true,
			Actions: []Action{
				{Name: "block", Form: func() ActionForm { return &BlockForm{} }},
				{Name: "balance", Form: func() ActionForm { return &BalanceForm{} }},
			},
		},
		{
			Name: "coins", Title: "Coin Packages", Module: access.Coins, Endpoint: "/admin/coins",
			List: true, PageSize: 20, IDField: "_id",
			Columns: []string{"_id", "coins", "price", "discount", "status"},
			Creates: createAt("/admin/coins", func() Form { return &CoinPackageForm{} }),
			Edit:    func() Form { return &CoinPackageForm{} },
			Actions: []Action{statusAction()},
		},
		{
			Name: "language", Title: "Languages", Module: access.Language, Endpoint: "/admin/languages",
			List: true, PageSize: 50, IDField: "_id",
			Columns: []string{"_id", "name", "code", "status"},
			Creates: createAt("/admin/languages", func() Form { return &LanguageForm{} }),
			Edit:    func() Form { return &LanguageForm{} },
			Actions: []Action{statusAction()},
		},
		{
			Name: "notifications", Title: "Notifications", Module: access.Notifications, Endpoint: "/admin/notifications",
			List: true, PageSize: 20, IDField: "_id",
			Columns: []string{"_id", "title", "audience", "createdAt"},
			Creates: createAt("/admin/notifications", func() Form { return &NotificationForm{} }),
			Edit:    func() Form { return &NotificationForm{} },
		},
		{
			Name: "cms", Title: "CMS Pages", Module: access.CMS, Endpoint: "/admin/cms",
			List: true, PageSize: 20, IDField: "_id",
			Columns: []string{"_id", "title", "slug", "updatedAt"},
			Creates: createAt("/admin/cms", func() Form { return &CMSForm{} }),
			Edit:    func() Form { return &CMSForm{} },
		},
		{
			Name: "settings", Title: "Settings", Module: access.Settings, Endpoint: "/admin/settings",
			Edit: func() Form { return &SettingsForm{} },
		},
		{
			Name: "leaderboard", Title: "Leader Board", Module: access.LeaderBoard, Endpoint: "/admin/leaderboard",
			List: true, PageSize: 50, IDField: "_id",
			Columns: []string{"_id", "name", "period", "rank", "reward"},
			Creates: createAt("/admin/leaderboard", func() Form { return &LeaderboardForm{} }),
			Edit:    func() Form { return &LeaderboardForm{} },
		},
		{
			Name: "withdrawals", Title: "Withdrawals", Module: access.Withdrawal, Endpoint: "/admin/withdrawals",
			List: true, PageSize: 20, IDField: "_id",
			Columns: []string{"_id", "userId", "amount", "method", "status", "createdAt"},
			Actions: []Action{
				{Name: "status", Form: func() ActionForm { return &DecisionForm{} }, Refetch: true},
			},
		},
		{
			Name: "conversion", Title: "Conversion", Module: access.Conversion, Endpoint: "/admin/conversions",
			List: true, PageSize: 20, IDField: "_id",
			Columns: []string{"_id", "userId", "coins", "amount", "createdAt"},
		},
		{
			Name: "calls", Title: "Calls", Module: access.Calls, Endpoint: "/admin/calls",
			List: true, PageSize: 50, IDField: "_id",
			Columns: []string{"_id", "callerId", "receiverId", "duration", "coins", "createdAt"},
		},
		{
			Name: "reports", Title: "Reports", Module: access.Reports, Endpoint: "/admin/reports",
			List: true, PageSize: 20, IDField: "_id",
			Columns: []string{"_id", "reporterId", "reportedId", "reason", "isBlocked", "createdAt"},
			Actions: []Action{
				{Name: "block", Module: access.ReportBlock, Form: func() ActionForm { return &BlockForm{} }},
			},
		},
		{
			Name: "user-roles", Title: "User Roles", Module: access.UserRoles, Endpoint: "/admin/roles",
			List: true, PageSize: 20, IDField: "_id",
			Columns: []string{"_id", "name"},
			Creates: []Create{
				{Segment: "add-admin", Endpoint: "/admin/admins", Form: func() Form { return &AdminForm{} }},
				{Segment: "add-role", Endpoint: "/admin/roles", Form: func() Form { return &RoleForm{} }},
			},
			Edit: func() Form { return &RoleForm{} },
			View: true,
		},
	}
}
