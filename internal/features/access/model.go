package access

// Module is a named feature area of the console and the unit of access control.
type Module string

const (
	Dashboard     Module = "Dashboard"
	Users         Module = "Users"
	Calls         Module = "Calls"
	Coins         Module = "Coins"
	Conversion    Module = "Conversion"
	Withdrawal    Module = "Withdrawal"
	LeaderBoard   Module = "Leader Board"
	Notifications Module = "Notifications"
	ReportBlock   Module = "Report/Block"
	Reports       Module = "Reports"
	Language      Module = "Language"

	// Console areas that never appear in the blocked map.
	CMS       Module = "CMS"
	Settings  Module = "Settings"
	UserRoles Module = "User Roles"
	Profile   Module = "Profile"
)

// BlockableModules is the fixed set whose membership in a role decides the
// blocked map. Dashboard is deliberately absent.
var BlockableModules = []Module{
	Users,
	Calls,
	Coins,
	Conversion,
	Withdrawal,
	LeaderBoard,
	Notifications,
	ReportBlock,
	Reports,
	Language,
}

// Level is the permission level a caller asks for.
type Level string

const (
	ReadOnly     Level = "readOnly"
	ReadAndWrite Level = "readAndWrite"
)

// Permissions are the two flags stored per module. They are not mutually
// exclusive; ReadAndWrite implies effective read access.
type Permissions struct {
	ReadOnly     bool `json:"readOnly" bson:"read_only"`
	ReadAndWrite bool `json:"readAndWrite" bson:"read_and_write"`
}

type AccessEntry struct {
	Module      Module      `json:"module" bson:"module"`
	Permissions Permissions `json:"permissions" bson:"permissions"`
}

// Role is the server-issued administrative identity template.
type Role struct {
	ID     string        `json:"id" bson:"id"`
	Name   string        `json:"name" bson:"name"`
	Access []AccessEntry `json:"access" bson:"access"`
}
